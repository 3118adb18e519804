// Package gigs records bookings into the backing sheet and serves the cached
// booking snapshot to the rest of the service.
package gigs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/cache"
	"github.com/mamadbah2/gigboard/internal/domain/models"
	repo "github.com/mamadbah2/gigboard/internal/repository/sheets"
	"github.com/mamadbah2/gigboard/pkg/metrics"
)

const defaultBookingsRange = "Gigs!A:L"

// Option configures the Service.
type Option func(*Service)

// WithRange overrides the A1 range holding bookings.
func WithRange(sheetRange string) Option {
	return func(s *Service) {
		if sheetRange != "" {
			s.bookingsRange = sheetRange
		}
	}
}

// WithSnapshot sets the snapshot cache. Without it every read hits the store.
func WithSnapshot(snapshot cache.Snapshot) Option {
	return func(s *Service) {
		s.snapshot = snapshot
	}
}

// WithMetrics attaches a metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service records and lists bookings.
type Service struct {
	repo          repo.Repository
	snapshot      cache.Snapshot
	metrics       *metrics.Manager
	bookingsRange string
	logger        *zap.Logger
}

// NewService wires a booking service over the given store.
func NewService(repository repo.Repository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:          repository,
		bookingsRange: defaultBookingsRange,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBooking validates and appends a booking, then drops the cached snapshot
// so the next read sees it.
func (s *Service) AddBooking(ctx context.Context, b models.Booking) error {
	if err := ValidateBooking(b); err != nil {
		s.metrics.RecordBooking(err)
		return err
	}

	if err := s.repo.WriteRow(ctx, s.bookingsRange, EncodeRow(b)); err != nil {
		s.metrics.RecordBooking(err)
		return fmt.Errorf("save booking: %w", err)
	}
	s.metrics.RecordBooking(nil)

	s.logger.Info("booking recorded",
		zap.String("gig_date", b.GigDate.Format(dateLayout)),
		zap.String("category", b.Category),
		zap.Float64("fee", b.Fee))

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("snapshot invalidation failed after append", zap.Error(err))
	}
	return nil
}

// ListBookings returns the booking history, from the snapshot when it is fresh.
func (s *Service) ListBookings(ctx context.Context) ([]models.Booking, error) {
	if s.snapshot != nil {
		bookings, err := s.snapshot.Load(ctx)
		if err == nil {
			s.metrics.RecordSnapshotLoad(metrics.SourceCache)
			return bookings, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("snapshot load failed, reading store", zap.Error(err))
		}
	}

	start := time.Now()
	rows, err := s.repo.ReadRange(ctx, s.bookingsRange)
	s.metrics.ObserveStoreRead(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	s.metrics.RecordSnapshotLoad(metrics.SourceStore)

	bookings := make([]models.Booking, 0, len(rows))
	for i, row := range rows {
		b, err := DecodeRow(row)
		if err != nil {
			// The header row and hand-edited junk rows land here.
			s.logger.Debug("skip booking row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		bookings = append(bookings, b)
	}

	if s.snapshot != nil {
		if err := s.snapshot.Store(ctx, bookings); err != nil {
			s.logger.Warn("snapshot store failed", zap.Error(err))
		}
	}

	return bookings, nil
}

// Refresh invalidates the cached snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	if s.snapshot == nil {
		return nil
	}
	s.metrics.RecordSnapshotRefresh()
	if err := s.snapshot.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate snapshot: %w", err)
	}
	return nil
}

// ValidateBooking checks a booking before it is recorded.
func ValidateBooking(b models.Booking) error {
	switch {
	case b.GigDate.IsZero():
		return fmt.Errorf("%w: gig date is required", ErrInvalidBooking)
	case strings.TrimSpace(b.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidBooking)
	case invalidAmount(b.Fee):
		return fmt.Errorf("%w: fee must not be negative", ErrInvalidBooking)
	case invalidAmount(b.HoursPlayed):
		return fmt.Errorf("%w: stage time must not be negative", ErrInvalidBooking)
	case invalidAmount(b.TimeAwayHours):
		return fmt.Errorf("%w: time away must not be negative", ErrInvalidBooking)
	case invalidAmount(b.TravelCost):
		return fmt.Errorf("%w: travel cost must not be negative", ErrInvalidBooking)
	case b.CrowdSize < 0:
		return fmt.Errorf("%w: crowd size must not be negative", ErrInvalidBooking)
	case b.Quality.Ordinal() == 0:
		return fmt.Errorf("%w: quality must be Low, Medium or High", ErrInvalidBooking)
	case b.Enjoyment < 1 || b.Enjoyment > 5:
		return fmt.Errorf("%w: enjoyment must be between 1 and 5", ErrInvalidBooking)
	case b.ConnectionsPotential < 1 || b.ConnectionsPotential > 5:
		return fmt.Errorf("%w: connections potential must be between 1 and 5", ErrInvalidBooking)
	}
	return nil
}

func invalidAmount(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}
