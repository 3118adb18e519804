// Package scoring evaluates candidate gigs against the musician's booking history.
//
// ComputeBaseline aggregates past bookings into hourly-rate statistics and
// Scorer turns a candidate plus importance weights into a score and a verdict.
// Both are pure: they perform no I/O and keep no mutable state, so a Scorer
// may be shared across goroutines.
package scoring
