package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/domain/models"
	"github.com/mamadbah2/gigboard/internal/domain/scoring"
	"github.com/mamadbah2/gigboard/pkg/metrics"
)

const (
	dateLayout   = "2006-01-02"
	reportWindow = 7 * 24 * time.Hour
)

// BookingSource supplies the booking history.
type BookingSource interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
}

// Archive persists generated weekly reports.
type Archive interface {
	SaveWeeklyReport(ctx context.Context, report models.WeeklyReport) error
	LatestWeeklyReports(ctx context.Context, limit int64) ([]models.WeeklyReport, error)
}

// Notifier pushes a text message to a recipient.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Option configures the Service.
type Option func(*Service)

// WithArchive stores every published weekly report.
func WithArchive(archive Archive) Option {
	return func(s *Service) {
		s.archive = archive
	}
}

// WithNotifier sends every published weekly report to recipient.
func WithNotifier(notifier Notifier, recipient string) Option {
	return func(s *Service) {
		s.notifier = notifier
		s.recipient = recipient
	}
}

// WithMetrics attaches a metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service derives the dashboard visuals and the weekly summary from the
// booking history.
type Service struct {
	source    BookingSource
	archive   Archive
	notifier  Notifier
	recipient string
	metrics   *metrics.Manager
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(source BookingSource, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{source: source, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CumulativeRevenue compares running gross revenue of the latest recorded year
// with the year before, both cut at today's day of year.
func (s *Service) CumulativeRevenue(ctx context.Context, today time.Time) (models.RevenueComparison, error) {
	bookings, err := s.source.ListBookings(ctx)
	if err != nil {
		return models.RevenueComparison{}, err
	}
	if len(bookings) == 0 {
		return models.RevenueComparison{}, ErrNoBookings
	}

	current := bookings[0].GigDate.Year()
	for _, b := range bookings[1:] {
		if y := b.GigDate.Year(); y > current {
			current = y
		}
	}

	cutoff := today.YearDay()
	return models.RevenueComparison{
		CurrentYear:  current,
		PreviousYear: current - 1,
		CutoffDay:    cutoff,
		Current:      cumulativeByDay(bookings, current, cutoff),
		Previous:     cumulativeByDay(bookings, current-1, cutoff),
	}, nil
}

func cumulativeByDay(bookings []models.Booking, year, cutoff int) []models.RevenuePoint {
	perDay := make(map[int]float64)
	for _, b := range bookings {
		if b.GigDate.Year() != year {
			continue
		}
		if day := b.GigDate.YearDay(); day <= cutoff {
			perDay[day] += b.Fee
		}
	}

	days := make([]int, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Ints(days)

	points := make([]models.RevenuePoint, 0, len(days))
	var running float64
	for _, day := range days {
		running += perDay[day]
		points = append(points, models.RevenuePoint{DayOfYear: day, Total: running})
	}
	return points
}

// HourlyRateByCategory returns the mean net hourly rate per gig category,
// best paying first.
func (s *Service) HourlyRateByCategory(ctx context.Context) ([]models.CategoryRate, error) {
	bookings, err := s.source.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		sum   float64
		count int
	}
	byCategory := make(map[string]*acc)
	for _, b := range bookings {
		a, ok := byCategory[b.Category]
		if !ok {
			a = &acc{}
			byCategory[b.Category] = a
		}
		a.sum += scoring.HourlyRate(b)
		a.count++
	}

	rates := make([]models.CategoryRate, 0, len(byCategory))
	for category, a := range byCategory {
		rates = append(rates, models.CategoryRate{
			Category:   category,
			HourlyRate: a.sum / float64(a.count),
			Gigs:       a.count,
		})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].HourlyRate != rates[j].HourlyRate {
			return rates[i].HourlyRate > rates[j].HourlyRate
		}
		return rates[i].Category < rates[j].Category
	})
	return rates, nil
}

// TotalAudience sums the crowd sizes of every recorded gig.
func (s *Service) TotalAudience(ctx context.Context) (int, error) {
	bookings, err := s.source.ListBookings(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, b := range bookings {
		total += b.CrowdSize
	}
	return total, nil
}

// Baseline computes the historical hourly baseline over the full history.
func (s *Service) Baseline(ctx context.Context) (scoring.BaselineStats, error) {
	bookings, err := s.source.ListBookings(ctx)
	if err != nil {
		return scoring.BaselineStats{}, err
	}
	stats, err := scoring.ComputeBaseline(bookings)
	if err != nil {
		return scoring.BaselineStats{}, fmt.Errorf("baseline over %d bookings: %w", len(bookings), err)
	}
	return stats, nil
}

// GenerateWeeklyReport summarises gigs played in the seven days up to now.
// The baseline fields stay zero while the history is empty.
func (s *Service) GenerateWeeklyReport(ctx context.Context, now time.Time) (models.WeeklyReport, error) {
	bookings, err := s.source.ListBookings(ctx)
	if err != nil {
		return models.WeeklyReport{}, err
	}

	report := models.WeeklyReport{
		PeriodStart: now.Add(-reportWindow),
		PeriodEnd:   now,
		CreatedAt:   now,
	}

	var rateSum float64
	for _, b := range bookings {
		if b.GigDate.Before(report.PeriodStart) || b.GigDate.After(report.PeriodEnd) {
			continue
		}
		report.GigCount++
		report.GrossRevenue += b.Fee
		report.NetRevenue += b.NetPay()
		report.HoursPlayed += b.HoursPlayed
		report.Audience += b.CrowdSize
		rateSum += scoring.HourlyRate(b)
	}
	if report.GigCount > 0 {
		report.AverageHourlyRate = rateSum / float64(report.GigCount)
	}

	if stats, err := scoring.ComputeBaseline(bookings); err == nil {
		report.BaselineAverage = stats.AverageHourlyRate
		report.BaselineMedian = stats.MedianHourlyRate
	}

	return report, nil
}

// FormatWeeklyReport renders a report as a chat message.
func FormatWeeklyReport(report models.WeeklyReport) string {
	period := fmt.Sprintf("%s to %s", report.PeriodStart.Format(dateLayout), report.PeriodEnd.Format(dateLayout))
	if report.GigCount == 0 {
		return fmt.Sprintf("Gig summary (%s): no gigs played this week.", period)
	}

	msg := fmt.Sprintf("Gig summary (%s): %d gigs, %.2f gross, %.2f net over %.1f hours, %d people reached. Average %.2f/hour.",
		period, report.GigCount, report.GrossRevenue, report.NetRevenue, report.HoursPlayed, report.Audience, report.AverageHourlyRate)
	if report.BaselineAverage > 0 {
		msg += fmt.Sprintf(" All-time baseline %.2f/hour (median %.2f).", report.BaselineAverage, report.BaselineMedian)
	}
	return msg
}

// PublishWeeklyReport generates the weekly report, archives it and sends it to
// the configured recipient. Archive and notification are skipped when not
// configured; a failure in either is returned after both have been attempted.
func (s *Service) PublishWeeklyReport(ctx context.Context, now time.Time) (models.WeeklyReport, error) {
	report, err := s.GenerateWeeklyReport(ctx, now)
	if err != nil {
		s.metrics.RecordWeeklyReport(err)
		return models.WeeklyReport{}, fmt.Errorf("generate weekly report: %w", err)
	}

	var firstErr error
	if s.archive != nil {
		if err := s.archive.SaveWeeklyReport(ctx, report); err != nil {
			s.logger.Error("failed to archive weekly report", zap.Error(err))
			firstErr = fmt.Errorf("archive weekly report: %w", err)
		}
	}

	if s.notifier != nil && s.recipient != "" {
		req := models.OutboundMessageRequest{To: s.recipient, Message: FormatWeeklyReport(report)}
		if err := s.notifier.SendOutbound(ctx, req); err != nil {
			s.logger.Error("failed to send weekly report", zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("send weekly report: %w", err)
			}
		}
	}

	s.metrics.RecordWeeklyReport(firstErr)
	if firstErr != nil {
		return report, firstErr
	}

	s.logger.Info("weekly report published",
		zap.Int("gigs", report.GigCount),
		zap.Float64("gross", report.GrossRevenue))
	return report, nil
}

// LatestWeeklyReports lists archived reports, newest first. Without an archive
// the list is empty.
func (s *Service) LatestWeeklyReports(ctx context.Context, limit int64) ([]models.WeeklyReport, error) {
	if s.archive == nil {
		return []models.WeeklyReport{}, nil
	}
	reports, err := s.archive.LatestWeeklyReports(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list weekly reports: %w", err)
	}
	return reports, nil
}
