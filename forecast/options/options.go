// Package options describes how a pre-trained forecast model generates its features at
// inference time: trend growth, fourier seasonality, changepoints and events.
package options

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast/util"
)

const LabelTimeEpoch = "epoch"

var (
	ErrUnknownGrowthType = errors.New("unknown growth type")
	ErrNoTime            = errors.New("no time points to generate features for")
)

// Options configures the features of a forecast model
type Options struct {
	// UseLog indicates the model was fit on log1p of the series so predictions are
	// transformed back with expm1.
	UseLog     bool   `json:"use_log"`
	GrowthType string `json:"growth_type"`

	ChangepointOptions ChangepointOptions `json:"changepoint_options"`
	SeasonalityOptions SeasonalityOptions `json:"seasonality_options"`
	EventOptions       EventOptions       `json:"event_options"`
}

// NewDefaultOptions returns options with linear growth and no seasonality which suits
// yearly development indicators
func NewDefaultOptions() *Options {
	return &Options{
		GrowthType: feature.GrowthLinear,
	}
}

// Validate checks the options can generate a consistent feature set
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	var errs []error
	switch o.GrowthType {
	case "", feature.GrowthLinear, feature.GrowthQuadratic:
	default:
		errs = append(errs, fmt.Errorf("%q, %w", o.GrowthType, ErrUnknownGrowthType))
	}
	for _, seasCfg := range o.SeasonalityOptions.SeasonalityConfigs {
		if err := seasCfg.Valid(); err != nil {
			errs = append(errs, fmt.Errorf("seasonality %q, %w", seasCfg.Name, err))
		}
	}
	for _, h := range o.EventOptions.Holidays {
		if _, err := h.holiday(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GenerateFeatures evaluates every feature described by the options at the input times.
// Features whose time span does not cover any input time are still present with zero data so
// the feature set only depends on the options.
func (o *Options) GenerateFeatures(t []time.Time, trainStartTime, trainEndTime time.Time) (*feature.Set, error) {
	if len(t) == 0 {
		return nil, ErrNoTime
	}
	if o == nil {
		o = NewDefaultOptions()
	}

	epoch := feature.NewTime(LabelTimeEpoch).Generate(t)
	feat := feature.NewSet(len(t))

	if err := o.generateGrowthFeatures(epoch, trainStartTime, trainEndTime, feat); err != nil {
		return nil, err
	}

	seasFeat, err := o.SeasonalityOptions.GenerateFeatures(epoch)
	if err != nil {
		return nil, fmt.Errorf("unable to generate seasonality features, %w", err)
	}
	if err := feat.Update(seasFeat); err != nil {
		return nil, err
	}

	chptFeat, err := o.ChangepointOptions.GenerateFeatures(t, trainEndTime)
	if err != nil {
		return nil, fmt.Errorf("unable to generate changepoint features, %w", err)
	}
	if err := feat.Update(chptFeat); err != nil {
		return nil, err
	}

	eventFeat, err := o.EventOptions.GenerateFeatures(t)
	if err != nil {
		return nil, fmt.Errorf("unable to generate event features, %w", err)
	}
	if err := feat.Update(eventFeat); err != nil {
		return nil, err
	}
	return feat, nil
}

func (o *Options) generateGrowthFeatures(epoch []float64, trainStartTime, trainEndTime time.Time, feat *feature.Set) error {
	var growth *feature.Growth
	switch o.GrowthType {
	case "":
		return nil
	case feature.GrowthLinear:
		growth = feature.Linear()
	case feature.GrowthQuadratic:
		growth = feature.Quadratic()
	default:
		return fmt.Errorf("%q, %w", o.GrowthType, ErrUnknownGrowthType)
	}

	data := growth.Generate(epoch, trainStartTime, trainEndTime)
	if data == nil {
		// empty training window leaves the trend flat
		data = make([]float64, len(epoch))
	}
	return feat.Set(growth, data)
}

// TablePrint writes a human readable summary of the options
func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if o == nil {
		return nil
	}
	growth := o.GrowthType
	if growth == "" {
		growth = "None"
	}
	if _, err := fmt.Fprintf(w, "%s%sGrowth: %s    Log: %t\n", prefix, util.IndentExpand(indent, indentGrowth), growth, o.UseLog); err != nil {
		return err
	}
	if err := o.SeasonalityOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	if err := o.ChangepointOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	return o.EventOptions.TablePrint(w, prefix, indent, indentGrowth)
}
