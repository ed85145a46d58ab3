// Package forecaster pairs a series forecast model with an uncertainty model so a single
// pre-trained artifact produces an expected value along with upper and lower bounds.
package forecaster

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/forecast"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoSeriesModel      = errors.New("no series model, missing training window")
	ErrUninitialized      = errors.New("uninitialized forecaster")
	ErrTimeLengthMismatch = errors.New("series and uncertainty predictions differ in length")
)

// Forecaster generates forecasts from a pre-trained model. It holds no mutable state after
// creation and can be shared across goroutines.
type Forecaster struct {
	seriesForecast      *forecast.Forecast
	uncertaintyForecast *forecast.Forecast
}

// NewFromModel creates a new instance of Forecaster from a serialized model. A model without
// an uncertainty model predicts bounds equal to the forecast.
func NewFromModel(model Model) (*Forecaster, error) {
	if model.Series.TrainEndTime.IsZero() {
		return nil, ErrNoSeriesModel
	}
	seriesForecast, err := forecast.NewFromModel(model.Series)
	if err != nil {
		return nil, fmt.Errorf("unable to load from series model, %w", err)
	}
	uncertaintyForecast, err := forecast.NewFromModel(model.Uncertainty)
	if err != nil {
		return nil, fmt.Errorf("unable to load from uncertainty model, %w", err)
	}
	f := &Forecaster{
		seriesForecast:      seriesForecast,
		uncertaintyForecast: uncertaintyForecast,
	}
	return f, nil
}

// Predict takes in any set of time samples and generates a forecast, upper, lower values per time point
func (f *Forecaster) Predict(t []time.Time) (*Results, error) {
	if f == nil {
		return nil, ErrUninitialized
	}
	seriesRes, seriesComp, err := f.seriesForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict series forecasts, %w", err)
	}
	uncertaintyRes, _, err := f.uncertaintyForecast.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict uncertainty forecasts, %w", err)
	}
	if len(uncertaintyRes) != len(seriesRes) {
		return nil, ErrTimeLengthMismatch
	}

	// cap uncertainty predictions to be greater than or equal to 0
	for i := 0; i < len(uncertaintyRes); i++ {
		if uncertaintyRes[i] < 0.0 {
			uncertaintyRes[i] = 0.0
		}
	}

	r := &Results{
		T:                t,
		Forecast:         seriesRes,
		SeriesComponents: seriesComp,
	}
	upper := make([]float64, len(seriesRes))
	lower := make([]float64, len(seriesRes))

	copy(upper, seriesRes)
	copy(lower, seriesRes)

	floats.Add(upper, uncertaintyRes)
	floats.Sub(lower, uncertaintyRes)
	r.Upper = upper
	r.Lower = lower
	return r, nil
}

// PredictOne forecasts a single point in time
func (f *Forecaster) PredictOne(t time.Time) (Point, error) {
	res, err := f.Predict([]time.Time{t})
	if err != nil {
		return Point{}, err
	}
	return res.Point(0), nil
}

// SeriesModelEq returns a string representation of the fit series model represented as
// y ~ b + m1x1 + m2x2 ...
func (f *Forecaster) SeriesModelEq() (string, error) {
	return f.seriesForecast.ModelEq()
}

// UncertaintyModelEq returns a string representation of the fit uncertainty model
func (f *Forecaster) UncertaintyModelEq() (string, error) {
	return f.uncertaintyForecast.ModelEq()
}

// Scores returns the fit scores of the series model
func (f *Forecaster) Scores() forecast.Scores {
	return f.seriesForecast.Scores()
}

// TrainEndTime returns the last time point the series model was trained on
func (f *Forecaster) TrainEndTime() time.Time {
	return f.seriesForecast.TrainEndTime()
}

// Model generates a serializeable representation of the series model and uncertainty model
func (f *Forecaster) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitialized
	}
	seriesModel, err := f.seriesForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch series model, %w", err)
	}
	uncertaintyModel, err := f.uncertaintyForecast.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch uncertainty model, %w", err)
	}
	m := Model{
		Series:      seriesModel,
		Uncertainty: uncertaintyModel,
	}
	return m, nil
}
