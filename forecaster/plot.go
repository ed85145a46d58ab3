package forecaster

import (
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice. NaN values are
// left out of the chart.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Trigger: "axis",
			},
		),
	)

	xAxis := make([]string, 0, len(t))
	for _, tPnt := range t {
		xAxis = append(xAxis, tPnt.Format(time.DateOnly))
	}

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				lineData[i] = append(lineData[i], opts.LineData{Value: "-"})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(xAxis)
	for i, series := range seriesName {
		if i >= len(lineData) {
			break
		}
		line = line.AddSeries(series, lineData[i])
	}

	return line
}

// LineForecast generates an echart line chart of forecast results plotting the expected values
// along with the upper and lower bounds.
func LineForecast(title string, res *Results) *charts.Line {
	if res == nil {
		res = &Results{}
	}
	return LineTSeries(
		title,
		[]string{"Forecast", "Upper", "Lower"},
		res.T,
		[][]float64{res.Forecast, res.Upper, res.Lower},
	)
}

// PlotForecast renders an html page with one forecast chart per titled result in the order
// given by titles.
func PlotForecast(w io.Writer, titles []string, res map[string]*Results) error {
	page := components.NewPage()
	for _, title := range titles {
		page.AddCharts(LineForecast(title, res[title]))
	}
	return page.Render(w)
}
