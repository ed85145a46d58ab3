package options

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast/util"
)

const (
	LabelSeasYearly    = "yearly"
	LabelSeasQuarterly = "quarterly"

	// YearDuration is the mean length of a gregorian year
	YearDuration = time.Duration(365.2425 * 24 * float64(time.Hour))
)

var (
	ErrInvalidPeriod = errors.New("seasonality period must be positive")
	ErrInvalidOrders = errors.New("seasonality orders must be positive")
	ErrNoName        = errors.New("no seasonality name")
)

// SeasonalityOptions lists the fourier series a model was fit with
type SeasonalityOptions struct {
	SeasonalityConfigs []SeasonalityConfig `json:"seasonality_configs"`
}

// SeasonalityConfig generates the sine and cosine terms of orders 1..Orders for a period.
// Order k has a period of Period/k.
type SeasonalityConfig struct {
	Name   string        `json:"name"`
	Orders int           `json:"orders"`
	Period time.Duration `json:"period"`
}

func NewSeasonalityConfig(name string, period time.Duration, orders int) SeasonalityConfig {
	if orders < 0 {
		orders = 0
	}
	return SeasonalityConfig{
		Name:   name,
		Orders: orders,
		Period: period,
	}
}

func NewYearlySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasYearly, YearDuration, orders)
}

func NewQuarterlySeasonalityConfig(orders int) SeasonalityConfig {
	return NewSeasonalityConfig(LabelSeasQuarterly, YearDuration/4, orders)
}

func (s SeasonalityConfig) Valid() error {
	if s.Name == "" {
		return ErrNoName
	}
	if s.Period <= 0 {
		return ErrInvalidPeriod
	}
	if s.Orders <= 0 {
		return ErrInvalidOrders
	}
	return nil
}

// GenerateFeatures evaluates the fourier terms of every valid config. Invalid configs are
// reported as an error.
func (s SeasonalityOptions) GenerateFeatures(epoch []float64) (*feature.Set, error) {
	feat := feature.NewSet(len(epoch))
	for _, seasCfg := range s.SeasonalityConfigs {
		if err := seasCfg.Valid(); err != nil {
			return nil, fmt.Errorf("%q, %w", seasCfg.Name, err)
		}
		period := seasCfg.Period.Seconds()
		name := LabelTimeEpoch + "_" + seasCfg.Name
		for order := 1; order <= seasCfg.Orders; order++ {
			for _, fcomp := range []feature.FourierComp{feature.FourierCompSin, feature.FourierCompCos} {
				f := feature.NewSeasonality(name, fcomp, order)
				if err := feat.Set(f, f.Generate(epoch, period)); err != nil {
					return nil, err
				}
			}
		}
	}
	return feat, nil
}

func (s SeasonalityOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	noCfg := " None"
	if len(s.SeasonalityConfigs) > 0 {
		noCfg = ""
	}
	if _, err := fmt.Fprintf(w, "%s%sSeasonality:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg); err != nil {
		return err
	}
	if len(s.SeasonalityConfigs) == 0 {
		return nil
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sName\tPeriod\tOrders\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	for _, seasCfg := range s.SeasonalityConfigs {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%d\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			seasCfg.Name, seasCfg.Period, seasCfg.Orders); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
