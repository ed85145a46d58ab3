package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast"
	"github.com/aouyang1/go-forecast-dashboard/forecast/options"
	"github.com/aouyang1/go-forecast-dashboard/forecaster"
	"github.com/aouyang1/go-forecast-dashboard/indicator"
	"github.com/aouyang1/go-forecast-dashboard/modelstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeModels writes a flat model per indicator whose value is its intercept
func writeModels(t *testing.T, dir string, values map[string]float64) {
	t.Helper()
	for _, m := range indicator.All() {
		v, ok := values[m.Key]
		if !ok {
			continue
		}
		model := forecaster.Model{
			Series: forecast.Model{
				TrainStartTime: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
				TrainEndTime:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				Options:        &options.Options{GrowthType: feature.GrowthLinear},
				Weights:        forecast.Weights{Intercept: v},
			},
		}
		f, err := os.Create(filepath.Join(dir, m.File))
		require.NoError(t, err)
		require.NoError(t, forecaster.WriteModel(f, model))
		require.NoError(t, f.Close())
	}
}

var flatValues = map[string]float64{
	indicator.KeyGDP:            5,
	indicator.KeyLifeExpectancy: 70,
	indicator.KeyPopulation:     0.03,
	indicator.KeyGDPPerCapita:   1200,
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, flatValues)

	testData := map[string]struct {
		opt      runOptions
		expected []string
		err      error
	}{
		"cards": {
			opt: runOptions{modelDir: dir, date: "2030-01-01"},
			expected: []string{
				"Displaying predictions for 2030-01-01",
				"$5.00 B",
				"70.0 Yrs",
				"0.030 B",
				"$1200",
			},
		},
		"with horizon": {
			opt:      runOptions{modelDir: dir, date: "2030-01-01", years: 2},
			expected: []string{"2031-01-01", "2032-01-01"},
		},
		"inspect": {
			opt:      runOptions{modelDir: dir, inspect: true},
			expected: []string{indicator.GDP.Label, indicator.GDPPerCapita.File, "Weights:"},
		},
		"invalid date": {
			opt: runOptions{modelDir: dir, date: "01/01/2030"},
			err: errUsage,
		},
		"missing models": {
			opt: runOptions{modelDir: t.TempDir(), date: "2030-01-01"},
			err: modelstore.ErrModelNotFound,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(&out, td.opt, zerolog.Nop())
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			for _, e := range td.expected {
				assert.Contains(t, out.String(), e)
			}
		})
	}
}

func TestRunMissingOneModel(t *testing.T) {
	dir := t.TempDir()
	partial := map[string]float64{
		indicator.KeyGDP:          5,
		indicator.KeyPopulation:   0.03,
		indicator.KeyGDPPerCapita: 1200,
	}
	writeModels(t, dir, partial)

	var out bytes.Buffer
	err := run(&out, runOptions{modelDir: dir, date: "2030-01-01"}, zerolog.Nop())
	assert.ErrorIs(t, err, modelstore.ErrModelNotFound)
	assert.Empty(t, out.String())
}
