package gigs

import "errors"

// ErrInvalidBooking marks a booking rejected before it reaches the store.
var ErrInvalidBooking = errors.New("invalid booking")
