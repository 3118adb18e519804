package models

// RevenuePoint is the running revenue total reached on a given day of the year.
type RevenuePoint struct {
	DayOfYear int     `json:"day_of_year"`
	Total     float64 `json:"total"`
}

// RevenueComparison compares cumulative revenue of the latest recorded year
// against the year before, both cut at the same day of year.
type RevenueComparison struct {
	CurrentYear  int            `json:"current_year"`
	PreviousYear int            `json:"previous_year"`
	CutoffDay    int            `json:"cutoff_day"`
	Current      []RevenuePoint `json:"current"`
	Previous     []RevenuePoint `json:"previous"`
}

// CategoryRate is the mean net hourly rate of one gig category.
type CategoryRate struct {
	Category   string  `json:"category"`
	HourlyRate float64 `json:"hourly_rate"`
	Gigs       int     `json:"gigs"`
}
