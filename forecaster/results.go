package forecaster

import (
	"time"

	"github.com/aouyang1/go-forecast-dashboard/forecast"
)

// Results holds the forecast with its uncertainty bounds at each requested time
type Results struct {
	T                []time.Time         `json:"time"`
	Forecast         []float64           `json:"forecast"`
	Upper            []float64           `json:"upper"`
	Lower            []float64           `json:"lower"`
	SeriesComponents forecast.Components `json:"series_components"`
}

// Point is a single forecasted value with its bounds
type Point struct {
	T        time.Time `json:"time"`
	Forecast float64   `json:"forecast"`
	Upper    float64   `json:"upper"`
	Lower    float64   `json:"lower"`
}

// Point returns the i-th forecast. Panics if i is out of range like slice indexing.
func (r *Results) Point(i int) Point {
	return Point{
		T:        r.T[i],
		Forecast: r.Forecast[i],
		Upper:    r.Upper[i],
		Lower:    r.Lower[i],
	}
}
