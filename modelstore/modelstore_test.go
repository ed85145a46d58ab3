package modelstore

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast"
	"github.com/aouyang1/go-forecast-dashboard/forecast/options"
	"github.com/aouyang1/go-forecast-dashboard/forecaster"
	"github.com/aouyang1/go-forecast-dashboard/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	trainStart = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	trainEnd   = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
)

type constModel float64

func (c constModel) PredictOne(t time.Time) (forecaster.Point, error) {
	v := float64(c)
	return forecaster.Point{T: t, Forecast: v, Upper: v, Lower: v}, nil
}

func writeModels(t *testing.T, dir string, skip string) {
	t.Helper()
	for i, m := range indicator.All() {
		if m.File == skip {
			continue
		}
		model := forecaster.Model{
			Series: forecast.Model{
				TrainStartTime: trainStart,
				TrainEndTime:   trainEnd,
				Options:        &options.Options{GrowthType: feature.GrowthLinear},
				Scores:         &forecast.Scores{R2: 0.9},
				Weights: forecast.Weights{
					Intercept: float64(i + 1),
					Coef:      []forecast.FeatureWeight{forecast.NewFeatureWeight(feature.Linear(), 1)},
				},
			},
		}
		file, err := os.Create(filepath.Join(dir, m.File))
		require.NoError(t, err)
		require.NoError(t, forecaster.WriteModel(file, model))
		require.NoError(t, file.Close())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "")

	s := NewFromDir(dir)
	assert.False(t, s.Loaded())

	models, err := s.Load()
	require.NoError(t, err)
	assert.True(t, s.Loaded())
	require.Len(t, models, 4)

	for i, m := range indicator.All() {
		model, exists := models[m.Key]
		require.True(t, exists, m.Key)

		p, err := model.PredictOne(trainEnd)
		require.NoError(t, err)
		assert.InDelta(t, float64(i+2), p.Forecast, 1e-9)
	}

	// removing the files after the first load has no effect on later loads
	for _, m := range indicator.All() {
		require.NoError(t, os.Remove(filepath.Join(dir, m.File)))
	}
	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, models, again)
}

func TestLoadMissingModel(t *testing.T) {
	for _, m := range indicator.All() {
		t.Run(m.Key, func(t *testing.T) {
			dir := t.TempDir()
			writeModels(t, dir, m.File)

			s := NewFromDir(dir)
			models, err := s.Load()
			assert.Nil(t, models)
			assert.ErrorIs(t, err, ErrModelNotFound)
			assert.ErrorIs(t, err, fs.ErrNotExist)
			assert.Contains(t, err.Error(), m.File)
			assert.False(t, s.Loaded())
		})
	}
}

func TestLoadInvalidModel(t *testing.T) {
	testData := map[string]struct {
		data string
		err  error
	}{
		"not json": {
			data: `not json`,
		},
		"coefficient without feature": {
			data: `{
  "series_model": {
    "train_start_time": "1990-01-01T00:00:00Z",
    "train_end_time": "2023-01-01T00:00:00Z",
    "options": {"growth_type": ""},
    "weights": {
      "intercept": 3.6,
      "coefficients": [
        {"labels": {"name": "linear"}, "type": "growth", "value": 36.4},
        {"labels": {"name": "c2015", "changepoint_component": "bias"}, "type": "changepoint", "value": 100}
      ]
    }
  }
}`,
			err: forecast.ErrUnknownCoefficient,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{}
			for _, m := range indicator.All() {
				fsys[m.File] = &fstest.MapFile{Data: []byte(td.data)}
			}

			s := New(fsys)
			models, err := s.Load()
			assert.Nil(t, models)
			assert.ErrorIs(t, err, ErrInvalidModel)
			assert.NotErrorIs(t, err, ErrModelNotFound)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
			assert.False(t, s.Loaded())
		})
	}
}

func TestLoadReadsOnce(t *testing.T) {
	var calls int
	load := func(fsys fs.FS, name string) (Model, error) {
		calls++
		return constModel(1), nil
	}
	rec := &stubRecorder{}
	s := New(fstest.MapFS{}, WithLoadFunc(load), WithRecorder(rec))

	first, err := s.Load()
	require.NoError(t, err)
	second, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, 4, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		indicator.KeyGDP, indicator.KeyLifeExpectancy, indicator.KeyPopulation, indicator.KeyGDPPerCapita,
	}, rec.loads)
}

func TestLoadFailureIsNotCached(t *testing.T) {
	fail := true
	load := func(fsys fs.FS, name string) (Model, error) {
		if fail {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return constModel(1), nil
	}
	rec := &stubRecorder{}
	s := New(fstest.MapFS{}, WithLoadFunc(load), WithRecorder(rec))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrModelNotFound)
	assert.Len(t, rec.errs, 1)

	fail = false
	models, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, models, 4)
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "")

	infos, err := NewFromDir(dir).Info()
	require.NoError(t, err)
	require.Len(t, infos, 4)

	assert.Equal(t, indicator.KeyGDP, infos[0].Key)
	assert.Equal(t, "model_gdp.json", infos[0].File)
	assert.Equal(t, trainEnd, infos[0].TrainEndTime)
	assert.Equal(t, 0.9, infos[0].Scores.R2)
	assert.Equal(t, "y ~ 1.00+1.00*growth_linear", infos[0].Equation)
	assert.Equal(t, "y ~ 0.00", infos[0].UncertaintyEquation)

	stub := New(fstest.MapFS{}, WithMetrics(indicator.GDP), WithLoadFunc(func(fs.FS, string) (Model, error) {
		return constModel(1), nil
	}))
	infos, err = stub.Info()
	require.NoError(t, err)
	assert.Equal(t, []Info{{Key: indicator.KeyGDP, Label: indicator.GDP.Label, File: indicator.GDP.File}}, infos)

	_, err = NewFromDir(t.TempDir()).Info()
	assert.ErrorIs(t, err, ErrModelNotFound)
}

type stubRecorder struct {
	loads []string
	errs  []error
}

func (r *stubRecorder) RecordModelLoad(metric string, seconds float64, err error) {
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	r.loads = append(r.loads, metric)
}

func TestLoadBundledModels(t *testing.T) {
	s := NewFromDir(filepath.Join("..", "models"))
	models, err := s.Load()
	require.NoError(t, err)
	require.Len(t, models, len(indicator.All()))

	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, m := range indicator.All() {
		p, err := models[m.Key].PredictOne(date)
		require.NoError(t, err, m.Key)
		assert.Greater(t, p.Forecast, 0.0, m.Key)
		assert.LessOrEqual(t, p.Lower, p.Forecast, m.Key)
		assert.GreaterOrEqual(t, p.Upper, p.Forecast, m.Key)
	}
}
