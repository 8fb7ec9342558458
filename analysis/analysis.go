// Package analysis computes the descriptive statistics displayed by the
// dashboard: per-series means, mean period-over-period percentage change,
// the Pearson correlation between CO2 emissions and diet unaffordability,
// and an ordinary least squares trend line of diet unaffordability as a
// function of CO2 emissions.
//
// Statistics that are not defined for a given view, because it has fewer
// than two records or a series has no variance, are reported as explicit
// undefined values instead of NaN so that no floating-point sentinel leaks
// into rendered output. All correlation and variance computations use the
// sample (n-1) convention, matching gonum's unweighted defaults.
package analysis

import (
	"github.com/ecosocial/dashboard/indicator"
	"gonum.org/v1/gonum/stat"
)

// Stat is a statistic that may be undefined. Valid is false when the
// underlying computation has no defined result, in which case Value is
// zero and carries no meaning.
type Stat struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

func definedStat(v float64) Stat {
	return Stat{Value: v, Valid: true}
}

// TrendLine holds the slope and intercept of the least squares fit of diet
// unaffordability against CO2 emissions.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the fitted line at x.
func (t TrendLine) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// Result is the derived snapshot for one filtered view. It is recomputed
// from scratch on every filter change and never persisted.
type Result struct {
	Count int `json:"count"`

	MeanCO2                 Stat `json:"mean_co2"`
	MeanDietUnaffordability Stat `json:"mean_diet_unaffordability"`

	CO2PctChangeMean  Stat `json:"co2_pct_change_mean"`
	DietPctChangeMean Stat `json:"diet_pct_change_mean"`

	Correlation Stat       `json:"correlation"`
	Trend       *TrendLine `json:"trend,omitempty"`
}

// Analyze computes the full statistics snapshot for a view. It is a pure
// function of its input and never faults on degenerate views: an empty or
// single-record view yields undefined change, correlation, and trend
// statistics, and a constant series leaves correlation and trend undefined.
func Analyze(view indicator.View) Result {
	res := Result{Count: len(view)}
	if len(view) == 0 {
		return res
	}

	co2 := view.CO2Series()
	diet := view.DietSeries()

	res.MeanCO2 = definedStat(stat.Mean(co2, nil))
	res.MeanDietUnaffordability = definedStat(stat.Mean(diet, nil))

	if len(view) < 2 {
		return res
	}

	res.CO2PctChangeMean = pctChangeMean(co2)
	res.DietPctChangeMean = pctChangeMean(diet)

	// zero variance in either series leaves the Pearson denominator and
	// the OLS slope undefined
	if stat.Variance(co2, nil) == 0 || stat.Variance(diet, nil) == 0 {
		return res
	}

	res.Correlation = definedStat(stat.Correlation(co2, diet, nil))

	intercept, slope := stat.LinearRegression(co2, diet, nil, false)
	res.Trend = &TrendLine{Slope: slope, Intercept: intercept}

	return res
}

// pctChangeMean returns the arithmetic mean of (x[i]-x[i-1])/x[i-1] for
// i in 1..n-1. A zero previous value makes the statistic undefined rather
// than propagating an infinity.
func pctChangeMean(x []float64) Stat {
	if len(x) < 2 {
		return Stat{}
	}
	changes := make([]float64, 0, len(x)-1)
	for i := 1; i < len(x); i++ {
		if x[i-1] == 0 {
			return Stat{}
		}
		changes = append(changes, (x[i]-x[i-1])/x[i-1])
	}
	return definedStat(stat.Mean(changes, nil))
}
