package reporting

import "errors"

// ErrNoBookings is returned when a visual needs at least one recorded gig.
var ErrNoBookings = errors.New("no bookings recorded")
