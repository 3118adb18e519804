package gigs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Column order of the Gigs sheet, matching the input form.
const (
	colGigDate = iota
	colBookingDate
	colCategory
	colFee
	colStageTime
	colTimeAway
	colTravelCost
	colQuality
	colEnjoyment
	colConnections
	colCrowdSize
	colYear

	requiredColumns = colCrowdSize + 1
)

// fallbackDateLayouts covers dates typed by hand into the sheet (day first).
var fallbackDateLayouts = []string{dateLayout, "02/01/2006", "2/1/2006", "02-01-2006", time.RFC3339}

// serialEpoch is day zero of spreadsheet serial dates (Sheets and Excel, 1900 system).
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var (
	errShortRow  = errors.New("row has too few columns")
	errNotFinite = errors.New("number is not finite")
)

// EncodeRow renders a booking in sheet column order.
func EncodeRow(b models.Booking) []interface{} {
	return []interface{}{
		b.GigDate.Format(dateLayout),
		b.BookingDate.Format(dateLayout),
		b.Category,
		b.Fee,
		b.HoursPlayed,
		b.TimeAwayHours,
		b.TravelCost,
		string(b.Quality),
		b.Enjoyment,
		b.ConnectionsPotential,
		b.CrowdSize,
		b.GigDate.Year(),
	}
}

// DecodeRow parses one sheet row. Blank numeric cells read as zero; the
// trailing year column is derived and ignored.
func DecodeRow(row []interface{}) (models.Booking, error) {
	if len(row) < requiredColumns {
		return models.Booking{}, fmt.Errorf("%w: got %d, want %d", errShortRow, len(row), requiredColumns)
	}

	gigDate, err := parseDate(row[colGigDate])
	if err != nil {
		return models.Booking{}, fmt.Errorf("gig date: %w", err)
	}

	var b models.Booking
	b.GigDate = gigDate
	if bookingDate, err := parseDate(row[colBookingDate]); err == nil {
		b.BookingDate = bookingDate
	}

	b.Category = strings.TrimSpace(fmt.Sprint(row[colCategory]))
	if b.Category == "" {
		return models.Booking{}, errors.New("empty category")
	}

	floats := []struct {
		col  int
		dest *float64
		name string
	}{
		{colFee, &b.Fee, "fee"},
		{colStageTime, &b.HoursPlayed, "stage time"},
		{colTimeAway, &b.TimeAwayHours, "time away"},
		{colTravelCost, &b.TravelCost, "travel cost"},
	}
	for _, f := range floats {
		if *f.dest, err = parseFloat(row[f.col]); err != nil {
			return models.Booking{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	quality, ok := models.ParseQuality(fmt.Sprint(row[colQuality]))
	if !ok {
		return models.Booking{}, fmt.Errorf("unknown quality %v", row[colQuality])
	}
	b.Quality = quality

	ints := []struct {
		col  int
		dest *int
		name string
	}{
		{colEnjoyment, &b.Enjoyment, "enjoyment"},
		{colConnections, &b.ConnectionsPotential, "connections"},
		{colCrowdSize, &b.CrowdSize, "crowd size"},
	}
	for _, i := range ints {
		if *i.dest, err = parseInt(row[i.col]); err != nil {
			return models.Booking{}, fmt.Errorf("%s: %w", i.name, err)
		}
	}

	return b, nil
}

func parseDate(value interface{}) (time.Time, error) {
	if serial, ok := value.(float64); ok {
		return fromSerial(serial)
	}
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	var lastErr error
	for _, layout := range fallbackDateLayouts {
		t, err := time.Parse(layout, str)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// fromSerial converts a spreadsheet serial day number into a calendar date.
func fromSerial(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
		return time.Time{}, fmt.Errorf("invalid serial date %v", serial)
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(serial))), nil
}

func parseFloat(value interface{}) (float64, error) {
	str := cleanNumber(value)
	if str == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

func parseInt(value interface{}) (int, error) {
	str := cleanNumber(value)
	if str == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(str); err == nil {
		return n, nil
	}
	// Sheets may render whole numbers as "3.0".
	f, err := parseFloat(str)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// cleanNumber strips currency symbols and thousands separators the sheet may add.
func cleanNumber(value interface{}) string {
	if value == nil {
		return ""
	}
	str := strings.TrimSpace(fmt.Sprint(value))
	return strings.NewReplacer("$", "", "£", "", "€", "", ",", "", " ", "").Replace(str)
}
