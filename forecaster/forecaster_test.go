package forecaster

import (
	"os"
	"testing"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast"
	"github.com/aouyang1/go-forecast-dashboard/forecast/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	trainStart = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	trainEnd   = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
)

func loadTestForecaster(t *testing.T) *Forecaster {
	t.Helper()
	f, err := LoadModel(os.DirFS("testdata"), "model.json")
	require.NoError(t, err)
	return f
}

func linearModel(intercept, slope float64) forecast.Model {
	return forecast.Model{
		TrainStartTime: trainStart,
		TrainEndTime:   trainEnd,
		Options:        &options.Options{GrowthType: feature.GrowthLinear},
		Weights: forecast.Weights{
			Intercept: intercept,
			Coef:      []forecast.FeatureWeight{forecast.NewFeatureWeight(feature.Linear(), slope)},
		},
	}
}

func TestPredict(t *testing.T) {
	f := loadTestForecaster(t)

	res, err := f.Predict([]time.Time{trainStart, trainEnd})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{trainStart, trainEnd}, res.T)
	assert.InDeltaSlice(t, []float64{20, 30}, res.Forecast, 1e-9)
	assert.InDeltaSlice(t, []float64{21, 31.5}, res.Upper, 1e-9)
	assert.InDeltaSlice(t, []float64{19, 28.5}, res.Lower, 1e-9)
	assert.InDeltaSlice(t, []float64{20, 30}, res.SeriesComponents.Trend, 1e-9)
}

func TestPredictNegativeUncertainty(t *testing.T) {
	f, err := NewFromModel(Model{
		Series:      linearModel(5, 0),
		Uncertainty: linearModel(-1, 0),
	})
	require.NoError(t, err)

	p, err := f.PredictOne(trainEnd)
	require.NoError(t, err)
	assert.Equal(t, Point{T: trainEnd, Forecast: 5, Upper: 5, Lower: 5}, p)
}

func TestPredictWithoutUncertaintyModel(t *testing.T) {
	f, err := NewFromModel(Model{Series: linearModel(5, 2)})
	require.NoError(t, err)

	p, err := f.PredictOne(trainEnd)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, p.Forecast, 1e-9)
	assert.Equal(t, p.Forecast, p.Upper)
	assert.Equal(t, p.Forecast, p.Lower)
}

func TestNewFromModel(t *testing.T) {
	testData := map[string]struct {
		model Model
		err   error
	}{
		"valid": {
			model: Model{Series: linearModel(1, 1), Uncertainty: linearModel(1, 0)},
		},
		"empty": {
			err: ErrNoSeriesModel,
		},
		"invalid series window": {
			model: Model{Series: forecast.Model{TrainStartTime: trainEnd, TrainEndTime: trainStart}},
			err:   forecast.ErrInvalidTrainingWindow,
		},
		"invalid uncertainty options": {
			model: Model{
				Series: linearModel(1, 1),
				Uncertainty: forecast.Model{
					Options: &options.Options{GrowthType: "cubic"},
				},
			},
			err: options.ErrUnknownGrowthType,
		},
		"series coefficient without feature": {
			model: Model{
				Series: forecast.Model{
					TrainStartTime: trainStart,
					TrainEndTime:   trainEnd,
					Options:        &options.Options{},
					Weights: forecast.Weights{
						Intercept: 3.6,
						Coef:      []forecast.FeatureWeight{forecast.NewFeatureWeight(feature.Linear(), 36.4)},
					},
				},
			},
			err: forecast.ErrUnknownCoefficient,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewFromModel(td.model)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestForecasterAccessors(t *testing.T) {
	f := loadTestForecaster(t)

	assert.Equal(t, trainEnd, f.TrainEndTime())
	assert.Equal(t, forecast.Scores{MSE: 0.25, MAPE: 0.012, R2: 0.991}, f.Scores())

	eq, err := f.SeriesModelEq()
	require.NoError(t, err)
	assert.Equal(t, "y ~ 20.00+10.00*growth_linear", eq)

	eq, err = f.UncertaintyModelEq()
	require.NoError(t, err)
	assert.Equal(t, "y ~ 1.00+0.50*growth_linear", eq)

	var nilForecaster *Forecaster
	_, err = nilForecaster.Predict([]time.Time{trainEnd})
	assert.ErrorIs(t, err, ErrUninitialized)
}
