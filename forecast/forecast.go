// Package forecast evaluates a single pre-trained linear forecast model. The model decomposes a
// series into an intercept, trend growth, changepoints, fourier seasonality and events whose
// coefficients were fit elsewhere and are loaded from a serialized Model.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast/options"
	"github.com/aouyang1/go-forecast-dashboard/forecast/util"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedForecast = errors.New("uninitialized forecast")
	ErrInvalidTrainingWindow = errors.New("training end time is before training start time")
	ErrUnknownCoefficient    = errors.New("coefficient is not generated by the model options")
)

// Forecast is a loaded forecast model ready for inference. It is immutable after creation and
// safe for concurrent use.
type Forecast struct {
	opt    *options.Options
	scores *Scores

	trainStartTime time.Time
	trainEndTime   time.Time

	fLabels   *feature.Labels // index positions correspond to coefficient values
	coef      []float64
	intercept float64
}

// Components breaks a prediction down into the contribution of each feature family.
// Trend includes the intercept and changepoints.
type Components struct {
	Trend       []float64 `json:"trend"`
	Seasonality []float64 `json:"seasonality"`
	Event       []float64 `json:"event"`
}

// NewFromModel creates a forecast from a serialized model. The model options are validated
// and every coefficient label must decode into a feature that the options generate over the
// training window.
func NewFromModel(model Model) (*Forecast, error) {
	if model.TrainEndTime.Before(model.TrainStartTime) {
		return nil, ErrInvalidTrainingWindow
	}
	opt := model.Options
	if opt == nil {
		opt = &options.Options{}
	}
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid forecast options, %w", err)
	}

	fLabels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, err
	}
	if err := validateCoefficients(opt, fLabels, model.TrainStartTime, model.TrainEndTime); err != nil {
		return nil, err
	}

	f := &Forecast{
		opt:            opt,
		scores:         model.Scores,
		trainStartTime: model.TrainStartTime,
		trainEndTime:   model.TrainEndTime,
		fLabels:        fLabels,
		coef:           model.Weights.Coefficients(),
		intercept:      model.Weights.Intercept,
	}
	return f, nil
}

// validateCoefficients checks that every coefficient has a matching feature. Holidays generate
// one event per year so both ends of the training window are sampled.
func validateCoefficients(opt *options.Options, fLabels *feature.Labels, trainStartTime, trainEndTime time.Time) error {
	if fLabels.Len() == 0 {
		return nil
	}
	x, err := opt.GenerateFeatures([]time.Time{trainStartTime, trainEndTime}, trainStartTime, trainEndTime)
	if err != nil {
		return fmt.Errorf("unable to generate features, %w", err)
	}
	for _, l := range fLabels.Labels() {
		if _, exists := x.Get(l); !exists {
			return fmt.Errorf("%s, %w", l, ErrUnknownCoefficient)
		}
	}
	return nil
}

// Predict takes a slice of times in any order and produces the expected value at each time
// along with the contribution of each component.
func (f *Forecast) Predict(t []time.Time) ([]float64, Components, error) {
	if f == nil {
		return nil, Components{}, ErrUninitializedForecast
	}
	if len(t) == 0 {
		return []float64{}, Components{}, nil
	}

	x, err := f.opt.GenerateFeatures(t, f.trainStartTime, f.trainEndTime)
	if err != nil {
		return nil, Components{}, fmt.Errorf("unable to generate features, %w", err)
	}

	comp := Components{
		Trend:       f.runInference(x.Filter(feature.FeatureTypeGrowth, feature.FeatureTypeChangepoint), true),
		Seasonality: f.runInference(x.Filter(feature.FeatureTypeSeasonality), false),
		Event:       f.runInference(x.Filter(feature.FeatureTypeEvent), false),
	}

	res := f.runInference(x, true)
	if f.opt.UseLog {
		util.SliceMap(res, math.Expm1)
	}
	return res, comp, nil
}

// runInference multiplies the feature matrix with the model weights. Generated features that
// the model holds no coefficient for are weighted with 0.
func (f *Forecast) runInference(x *feature.Set, withIntercept bool) []float64 {
	featMx := x.Matrix(withIntercept)
	if featMx == nil {
		return make([]float64, x.Observations())
	}

	labels := x.Labels().Labels()
	weights := make([]float64, 0, len(labels)+1)
	if withIntercept {
		weights = append(weights, f.intercept)
	}
	for _, feat := range labels {
		var w float64
		if idx, exists := f.fLabels.Index(feat); exists {
			w = f.coef[idx]
		}
		weights = append(weights, w)
	}

	var resVec mat.VecDense
	resVec.MulVec(featMx, mat.NewVecDense(len(weights), weights))
	return mat.Col(nil, 0, &resVec)
}

// ModelEq returns the linear equation of the model in the form y ~ b + m1*x1 + m2*x2 ...
// skipping zero coefficients
func (f *Forecast) ModelEq() (string, error) {
	if f == nil {
		return "", ErrUninitializedForecast
	}

	var eq strings.Builder
	fmt.Fprintf(&eq, "y ~ %.2f", f.intercept)
	for i, l := range f.fLabels.Labels() {
		if f.coef[i] == 0 {
			continue
		}
		fmt.Fprintf(&eq, "+%.2f*%s", f.coef[i], l)
	}
	return eq.String(), nil
}

// Scores returns the fit scores recorded at training time
func (f *Forecast) Scores() Scores {
	if f == nil || f.scores == nil {
		return Scores{}
	}
	return *f.scores
}

// TrainEndTime returns the last time point the model was trained on
func (f *Forecast) TrainEndTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainEndTime
}

// Model returns the serializeable format of the forecast
func (f *Forecast) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecast
	}
	labels := f.fLabels.Labels()
	fws := make([]FeatureWeight, 0, len(labels))
	for i, l := range labels {
		fws = append(fws, NewFeatureWeight(l, f.coef[i]))
	}
	return Model{
		TrainStartTime: f.trainStartTime,
		TrainEndTime:   f.trainEndTime,
		Options:        f.opt,
		Scores:         f.scores,
		Weights: Weights{
			Intercept: f.intercept,
			Coef:      fws,
		},
	}, nil
}
