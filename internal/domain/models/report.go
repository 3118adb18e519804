package models

import "time"

// WeeklyReport is the gig summary archived in MongoDB and pushed to the musician.
type WeeklyReport struct {
	PeriodStart       time.Time `bson:"period_start" json:"period_start"`
	PeriodEnd         time.Time `bson:"period_end" json:"period_end"`
	GigCount          int       `bson:"gig_count" json:"gig_count"`
	GrossRevenue      float64   `bson:"gross_revenue" json:"gross_revenue"`
	NetRevenue        float64   `bson:"net_revenue" json:"net_revenue"`
	HoursPlayed       float64   `bson:"hours_played" json:"hours_played"`
	Audience          int       `bson:"audience" json:"audience"`
	AverageHourlyRate float64   `bson:"average_hourly_rate" json:"average_hourly_rate"`
	BaselineAverage   float64   `bson:"baseline_average" json:"baseline_average"`
	BaselineMedian    float64   `bson:"baseline_median" json:"baseline_median"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}
