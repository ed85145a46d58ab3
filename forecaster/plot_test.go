package forecaster

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTSeries(t *testing.T) {
	tSeries := []time.Time{trainStart, trainEnd}
	line := LineTSeries("Test", []string{"a", "b"}, tSeries, [][]float64{{1, math.NaN()}, {3, 4}})

	require.Len(t, line.MultiSeries, 2)
	assert.Equal(t, "a", line.MultiSeries[0].Name)
	assert.Equal(t, "b", line.MultiSeries[1].Name)
}

func TestPlotForecast(t *testing.T) {
	f := loadTestForecaster(t)
	res, err := f.Predict([]time.Time{trainEnd, trainEnd.AddDate(1, 0, 0)})
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, PlotForecast(&b, []string{"GDP", "Missing"}, map[string]*Results{"GDP": res}))

	out := b.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "GDP")
	assert.Contains(t, out, "2021-01-01")
}
