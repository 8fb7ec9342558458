package dashboard

import (
	"fmt"
	"strconv"

	"github.com/ecosocial/dashboard/analysis"
	"github.com/ecosocial/dashboard/indicator"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

// LineTrend generates an echart line chart of one indicator series against
// the observation years of the view.
func LineTrend(title, seriesName, yAxisName string, view indicator.View, y []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: yAxisName,
			},
		),
	)

	lineData := make([]opts.LineData, 0, len(y))
	for _, val := range y {
		lineData = append(lineData, opts.LineData{Value: val})
	}

	line.SetXAxis(view.Years()).AddSeries(seriesName, lineData)
	return line
}

// CO2Trend is the CO2 emissions per year chart.
func CO2Trend(view indicator.View) *charts.Line {
	return LineTrend(
		"CO2 Emissions Trend",
		"CO2 Emissions",
		"Million Tonnes",
		view,
		view.CO2Series(),
	)
}

// DietTrend is the diet unaffordability per year chart.
func DietTrend(view indicator.View) *charts.Line {
	return LineTrend(
		"Diet Affordability Trend",
		"Unable to Afford Diet",
		"% of Population",
		view,
		view.DietSeries(),
	)
}

// ScatterCorrelation generates the correlation scatter of diet
// unaffordability against CO2 emissions, one point per year labeled with
// its observation year, with the fitted OLS line overlaid when defined.
func ScatterCorrelation(view indicator.View, res analysis.Result) *charts.Scatter {
	title := opts.Title{Title: "Correlation: CO2 vs Diet Affordability"}
	if res.Correlation.Valid {
		title.Subtitle = fmt.Sprintf("r = %.2f", res.Correlation.Value)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(title),
		charts.WithXAxisOpts(
			opts.XAxis{
				Type: "value",
				Name: "CO2 Emissions (Million Tonnes)",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Type: "value",
				Name: "% Unable to Afford Diet",
			},
		),
	)

	scatterData := make([]opts.ScatterData, 0, len(view))
	for _, rec := range view {
		scatterData = append(scatterData, opts.ScatterData{
			Name:       strconv.Itoa(rec.Year),
			Value:      []interface{}{rec.CO2Emissions, rec.DietUnaffordability},
			SymbolSize: 12,
		})
	}
	scatter.AddSeries(
		"Observations", scatterData,
		charts.WithLabelOpts(
			opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
				Position:  "top",
			},
		),
	)

	if res.Trend != nil {
		scatter.Overlap(trendOverlay(view, *res.Trend))
	}
	return scatter
}

// trendOverlay draws the fitted line across the x extent of the view. Two
// endpoints are enough since the fit is a straight line.
func trendOverlay(view indicator.View, trend analysis.TrendLine) *charts.Line {
	co2 := view.CO2Series()
	minX := floats.Min(co2)
	maxX := floats.Max(co2)

	line := charts.NewLine()
	line.AddSeries(
		"Trend",
		[]opts.LineData{
			{Value: []interface{}{minX, trend.At(minX)}},
			{Value: []interface{}{maxX, trend.At(maxX)}},
		},
	)
	return line
}
