package scoring

import (
	"math"
	"sort"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

// minHistoricalHours clamps zero-duration history entries so they do not blow
// up the hourly rate. It is an approximation, not a validation.
const minHistoricalHours = 1.0

// BaselineStats summarises the net hourly rate distribution of past bookings.
type BaselineStats struct {
	AverageHourlyRate float64 `json:"average_hourly_rate"`
	MedianHourlyRate  float64 `json:"median_hourly_rate"`
	MinHourlyRate     float64 `json:"min_hourly_rate"`
	MaxHourlyRate     float64 `json:"max_hourly_rate"`
	Count             int     `json:"count"`
}

// HourlyRate returns (fee - travel cost) / max(hours played, 1) for a recorded booking.
func HourlyRate(b models.Booking) float64 {
	return b.NetPay() / math.Max(b.HoursPlayed, minHistoricalHours)
}

// ComputeBaseline derives the unweighted mean and median hourly rate over the
// full history. An empty history returns ErrInsufficientData.
func ComputeBaseline(records []models.Booking) (BaselineStats, error) {
	if len(records) == 0 {
		return BaselineStats{}, ErrInsufficientData
	}

	rates := make([]float64, len(records))
	var sum float64
	for i, record := range records {
		rates[i] = HourlyRate(record)
		sum += rates[i]
	}
	sort.Float64s(rates)

	return BaselineStats{
		AverageHourlyRate: sum / float64(len(rates)),
		MedianHourlyRate:  median(rates),
		MinHourlyRate:     rates[0],
		MaxHourlyRate:     rates[len(rates)-1],
		Count:             len(rates),
	}, nil
}

// median expects sorted, non-empty input.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
