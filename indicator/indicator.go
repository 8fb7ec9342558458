// Package indicator stores the yearly environmental and social welfare
// observations for a single country and provides year-range filtering over
// them. A Dataset is loaded once, validated, and treated as immutable for
// the lifetime of a session.
package indicator

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecords         = errors.New("no indicator records")
	ErrNonMonotonicYears = errors.New("years are not strictly increasing")
	ErrInvalidRange      = errors.New("year range is outside dataset bounds or inverted")
)

// Record is a single yearly observation. CO2Emissions is the total CO2
// emitted in million tonnes. DietUnaffordability is the percentage of the
// population unable to afford a sufficient diet, in [0, 100].
type Record struct {
	Year                int     `json:"year"`
	CO2Emissions        float64 `json:"total_co2_emissions"`
	DietUnaffordability float64 `json:"pct_unable_to_afford_diet"`
}

// Dataset is an ordered collection of yearly records sorted ascending by
// year with no duplicate years.
type Dataset struct {
	records []Record
}

// NewDataset validates and wraps a slice of records. The input must be
// non-empty and strictly increasing by year, which also rules out duplicate
// years. The slice is copied so later mutation of the input cannot reach
// the dataset.
func NewDataset(records []Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	for i := 1; i < len(records); i++ {
		if records[i].Year <= records[i-1].Year {
			return nil, fmt.Errorf("year %d at index %d, %w", records[i].Year, i, ErrNonMonotonicYears)
		}
	}
	rec := make([]Record, len(records))
	copy(rec, records)
	return &Dataset{records: rec}, nil
}

// Records returns a copy of all records in the dataset.
func (d *Dataset) Records() []Record {
	rec := make([]Record, len(d.records))
	copy(rec, d.records)
	return rec
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// MinYear returns the first observation year.
func (d *Dataset) MinYear() int {
	return d.records[0].Year
}

// MaxYear returns the last observation year.
func (d *Dataset) MaxYear() int {
	return d.records[len(d.records)-1].Year
}

func (d *Dataset) Copy() *Dataset {
	return &Dataset{records: d.Records()}
}

// YearRange is an inclusive [Min, Max] year selection.
type YearRange struct {
	Min int `json:"min_year"`
	Max int `json:"max_year"`
}

// FullRange returns the range spanning the entire dataset.
func FullRange(d *Dataset) YearRange {
	return YearRange{Min: d.MinYear(), Max: d.MaxYear()}
}

// Validate reports whether the range is usable against the dataset. A range
// is invalid when inverted or when either bound falls outside the dataset's
// observed years.
func (r YearRange) Validate(d *Dataset) error {
	if r.Min > r.Max {
		return fmt.Errorf("min %d > max %d, %w", r.Min, r.Max, ErrInvalidRange)
	}
	if r.Min < d.MinYear() || r.Max > d.MaxYear() {
		return fmt.Errorf(
			"range [%d, %d] outside dataset [%d, %d], %w",
			r.Min, r.Max, d.MinYear(), d.MaxYear(), ErrInvalidRange,
		)
	}
	return nil
}

// Clamp returns the range limited to the dataset bounds, swapping an
// inverted pair. Both bounds are forced into [MinYear, MaxYear], so a range
// lying entirely outside the dataset collapses onto the nearest bound and
// the result always passes Validate. This is the permissive counterpart to
// Filter's strict policy and is what user-facing layers apply to raw input
// before filtering.
func (r YearRange) Clamp(d *Dataset) YearRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	r.Min = min(max(r.Min, d.MinYear()), d.MaxYear())
	r.Max = max(min(r.Max, d.MaxYear()), d.MinYear())
	return r
}

// View is an ordered contiguous subsequence of a Dataset. An empty view is
// valid; downstream statistics report undefined rather than failing.
type View []Record

// Filter returns the view of records with year in [r.Min, r.Max]. The range
// is validated strictly and an out-of-bounds or inverted range returns
// ErrInvalidRange; callers wanting permissive behavior clamp first.
func Filter(d *Dataset, r YearRange) (View, error) {
	if err := r.Validate(d); err != nil {
		return nil, err
	}
	view := make(View, 0, len(d.records))
	for _, rec := range d.records {
		if rec.Year < r.Min {
			continue
		}
		if rec.Year > r.Max {
			break
		}
		view = append(view, rec)
	}
	return view, nil
}

// Years returns the observation years of the view.
func (v View) Years() []int {
	years := make([]int, len(v))
	for i, rec := range v {
		years[i] = rec.Year
	}
	return years
}

// CO2Series returns the CO2 emission values of the view in year order.
func (v View) CO2Series() []float64 {
	y := make([]float64, len(v))
	for i, rec := range v {
		y[i] = rec.CO2Emissions
	}
	return y
}

// DietSeries returns the diet unaffordability values of the view in year order.
func (v View) DietSeries() []float64 {
	y := make([]float64, len(v))
	for i, rec := range v {
		y[i] = rec.DietUnaffordability
	}
	return y
}
