package models

import (
	"strings"
	"time"
)

// Quality grades how good a gig is for the musician's career.
type Quality string

const (
	QualityLow    Quality = "Low"
	QualityMedium Quality = "Medium"
	QualityHigh   Quality = "High"
)

// Ordinal maps a quality grade to its rank (Low=1, Medium=2, High=3). Unknown grades rank 0.
func (q Quality) Ordinal() int {
	switch q {
	case QualityLow:
		return 1
	case QualityMedium:
		return 2
	case QualityHigh:
		return 3
	default:
		return 0
	}
}

// ParseQuality accepts any casing of Low, Medium or High.
func ParseQuality(value string) (Quality, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return QualityLow, true
	case "medium":
		return QualityMedium, true
	case "high":
		return QualityHigh, true
	default:
		return "", false
	}
}

// Categories lists the gig types offered by the input form. Any non-empty
// category is accepted when recording a booking.
var Categories = []string{
	"Pub",
	"Wedding",
	"Corporate",
	"Festival Original",
	"Festival Tribute",
	"Original",
	"Tribute",
	"Other",
}

// Booking is one recorded performance engagement. Its identity is the row
// position in the backing sheet.
type Booking struct {
	GigDate              time.Time `json:"gig_date" bson:"gig_date"`
	BookingDate          time.Time `json:"booking_date" bson:"booking_date"`
	Category             string    `json:"category" bson:"category"`
	Fee                  float64   `json:"fee" bson:"fee"`
	HoursPlayed          float64   `json:"hours_played" bson:"hours_played"`
	TimeAwayHours        float64   `json:"time_away_hours" bson:"time_away_hours"`
	TravelCost           float64   `json:"travel_cost" bson:"travel_cost"`
	Quality              Quality   `json:"quality" bson:"quality"`
	Enjoyment            int       `json:"enjoyment" bson:"enjoyment"`
	ConnectionsPotential int       `json:"connections_potential" bson:"connections_potential"`
	CrowdSize            int       `json:"crowd_size" bson:"crowd_size"`
}

// NetPay is the fee after travel costs.
func (b Booking) NetPay() float64 {
	return b.Fee - b.TravelCost
}
