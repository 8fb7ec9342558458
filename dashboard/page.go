package dashboard

import (
	"fmt"
	"html/template"
	"io"

	"github.com/ecosocial/dashboard/analysis"
	"github.com/ecosocial/dashboard/indicator"
	"github.com/go-echarts/go-echarts/v2/charts"
)

const echartsAssetURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// Metric is one rendered summary card. Delta is optional secondary text
// such as a mean percentage change.
type Metric struct {
	Label string
	Value string
	Delta string
}

// ChartBlock is one chart embedded into the page as a div plus its init
// script.
type ChartBlock struct {
	Element template.HTML
	Script  template.HTML
}

// TableRow is one formatted row of the raw data table.
type TableRow struct {
	Year string
	CO2  string
	Diet string
}

// PageData carries everything the dashboard template renders.
type PageData struct {
	Title    string
	Intro    string
	AssetURL string

	Bounds   indicator.YearRange
	Selected indicator.YearRange

	Metrics  []Metric
	Charts   []ChartBlock
	Rows     []TableRow
	Insights []string
	Footer   []string
}

// BuildPage assembles the full dashboard view model: summary metrics, the
// two trend charts, the correlation scatter, the formatted data table, and
// the insights narrative. All numeric formatting lives here; undefined
// statistics render as "n/a" rather than a NaN.
func BuildPage(ds *indicator.Dataset, selected indicator.YearRange, view indicator.View, res analysis.Result) *PageData {
	data := &PageData{
		Title: "South Africa: CO2 Emissions vs Food Affordability",
		Intro: "This dashboard explores the relationship between environmental impact " +
			"(CO2 emissions) and social welfare (food affordability) in South Africa.",
		AssetURL: echartsAssetURL,
		Bounds:   indicator.FullRange(ds),
		Selected: selected,
		Metrics:  buildMetrics(selected, res),
		Insights: buildInsights(res),
		Footer: []string{
			"Data Source: World Bank Open Data",
			"Charts rendered with Apache ECharts",
		},
	}

	data.Charts = []ChartBlock{
		chartBlock(CO2Trend(view)),
		chartBlock(DietTrend(view)),
		scatterBlock(ScatterCorrelation(view, res)),
	}

	data.Rows = make([]TableRow, 0, len(view))
	for _, rec := range view {
		data.Rows = append(data.Rows, TableRow{
			Year: fmt.Sprintf("%d", rec.Year),
			CO2:  fmt.Sprintf("%.1f", rec.CO2Emissions),
			Diet: fmt.Sprintf("%.1f%%", rec.DietUnaffordability),
		})
	}
	return data
}

func chartBlock(line *charts.Line) ChartBlock {
	snippet := line.RenderSnippet()
	return ChartBlock{
		Element: template.HTML(snippet.Element),
		Script:  template.HTML(snippet.Script),
	}
}

func scatterBlock(scatter *charts.Scatter) ChartBlock {
	snippet := scatter.RenderSnippet()
	return ChartBlock{
		Element: template.HTML(snippet.Element),
		Script:  template.HTML(snippet.Script),
	}
}

func buildMetrics(selected indicator.YearRange, res analysis.Result) []Metric {
	return []Metric{
		{
			Label: "Average CO2 Emissions",
			Value: formatStat(res.MeanCO2, "%.1fM tonnes"),
			Delta: formatPctDelta(res.CO2PctChangeMean),
		},
		{
			Label: "Avg. Unable to Afford Diet",
			Value: formatStat(res.MeanDietUnaffordability, "%.1f%%"),
			Delta: formatPctDelta(res.DietPctChangeMean),
		},
		{
			Label: "Correlation Coefficient",
			Value: formatStat(res.Correlation, "%.2f"),
			Delta: correlationWord(res.Correlation),
		},
		{
			Label: "Data Points",
			Value: fmt.Sprintf("%d", res.Count),
			Delta: fmt.Sprintf("%d - %d", selected.Min, selected.Max),
		},
	}
}

// formatStat formats a defined statistic with the given verb and renders
// an undefined one as "n/a" so no NaN reaches the page.
func formatStat(s analysis.Stat, verb string) string {
	if !s.Valid {
		return "n/a"
	}
	return fmt.Sprintf(verb, s.Value)
}

func formatPctDelta(s analysis.Stat) string {
	if !s.Valid {
		return ""
	}
	return fmt.Sprintf("%+.1f%% avg change", s.Value*100)
}

func correlationWord(s analysis.Stat) string {
	switch {
	case !s.Valid:
		return ""
	case s.Value < 0:
		return "Negative"
	default:
		return "Positive"
	}
}

func buildInsights(res analysis.Result) []string {
	insights := []string{
		"CO2 emissions show a general downward trend across the observed period.",
		"Diet unaffordability remains persistently high (>60%) throughout the period.",
		"The relationship between the two variables is weak; correlation does not imply causation.",
		"The short time series limits longitudinal analysis, and multiple external factors may influence both variables.",
	}
	if res.Correlation.Valid && res.MeanCO2.Valid && res.MeanDietUnaffordability.Valid {
		insights = append(insights, fmt.Sprintf(
			"Over the selected range: correlation coefficient %.2f, average CO2 emissions %.1f million tonnes, average population unable to afford a sufficient diet %.1f%%.",
			res.Correlation.Value, res.MeanCO2.Value, res.MeanDietUnaffordability.Value,
		))
	}
	return insights
}

var pageTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.AssetURL}}"></script>
<style>
body {font-family: sans-serif; margin: 2rem; color: #222;}
.main-header {font-size: 2rem; color: #1f77b4; font-weight: bold;}
.sub-header {font-size: 1.25rem; color: #ff7f0e; margin-top: 2rem;}
.metrics {display: flex; gap: 1rem; margin: 1rem 0;}
.metric-card {background-color: #f0f2f6; padding: 1rem 1.5rem; border-radius: 0.5rem; flex: 1;}
.metric-card .value {font-size: 1.5rem; font-weight: bold;}
.metric-card .delta {color: #555; font-size: 0.85rem;}
.charts {display: flex; flex-wrap: wrap; gap: 1rem;}
table {border-collapse: collapse; margin-top: 0.5rem;}
th, td {border: 1px solid #ccc; padding: 0.35rem 0.9rem; text-align: right;}
footer {margin-top: 2rem; border-top: 1px solid #ccc; padding-top: 0.5rem; color: #777; font-size: 0.85rem;}
</style>
</head>
<body>
<p class="main-header">{{.Title}}</p>
<p>{{.Intro}}</p>

<form method="get" action="/">
<label>From <input type="number" name="from" min="{{.Bounds.Min}}" max="{{.Bounds.Max}}" value="{{.Selected.Min}}"></label>
<label>To <input type="number" name="to" min="{{.Bounds.Min}}" max="{{.Bounds.Max}}" value="{{.Selected.Max}}"></label>
<button type="submit">Apply</button>
</form>

<div class="metrics">
{{range .Metrics}}<div class="metric-card">
<div>{{.Label}}</div>
<div class="value">{{.Value}}</div>
<div class="delta">{{.Delta}}</div>
</div>
{{end}}</div>

<p class="sub-header">Trend &amp; Correlation Analysis</p>
<div class="charts">
{{range .Charts}}{{.Element}}{{end}}
</div>

<p class="sub-header">Raw Data</p>
<table>
<tr><th>Year</th><th>CO2 Emissions (Mt)</th><th>Unable to Afford Diet</th></tr>
{{range .Rows}}<tr><td>{{.Year}}</td><td>{{.CO2}}</td><td>{{.Diet}}</td></tr>
{{end}}</table>

<p class="sub-header">Key Insights</p>
<details open>
<summary>View Analysis Insights</summary>
<ul>
{{range .Insights}}<li>{{.}}</li>
{{end}}</ul>
</details>

<footer>
{{range .Footer}}<div>{{.}}</div>
{{end}}</footer>

{{range .Charts}}{{.Script}}{{end}}
</body>
</html>
`))

// RenderPage writes the dashboard HTML for the given view model.
func RenderPage(w io.Writer, data *PageData) error {
	return pageTmpl.Execute(w, data)
}
