package options

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast/util"
)

// Changepoint describes a point in time where the trend of the series changed
type Changepoint struct {
	T    time.Time `json:"time"`
	Name string    `json:"name"`
}

func NewChangepoint(name string, t time.Time) Changepoint {
	return Changepoint{t, name}
}

// ChangepointOptions lists the changepoints a model was fit with. Each changepoint contributes
// a bias feature and, with growth enabled, a slope feature.
type ChangepointOptions struct {
	Changepoints []Changepoint `json:"changepoints"`
	EnableGrowth bool          `json:"enable_growth"`
}

// GenerateFeatures evaluates the changepoint features at the input times. Changepoints after
// the training end time were never modelled and are skipped.
func (c ChangepointOptions) GenerateFeatures(t []time.Time, trainEndTime time.Time) (*feature.Set, error) {
	feat := feature.NewSet(len(t))
	for i, chpt := range c.Changepoints {
		if chpt.T.After(trainEndTime) {
			continue
		}
		name := chpt.Name
		if name == "" {
			name = strconv.Itoa(i)
		}

		bias := feature.NewChangepoint(name, feature.ChangepointCompBias)
		if err := feat.Set(bias, bias.Generate(t, chpt.T, trainEndTime)); err != nil {
			return nil, err
		}
		if !c.EnableGrowth {
			continue
		}
		slope := feature.NewChangepoint(name, feature.ChangepointCompSlope)
		if err := feat.Set(slope, slope.Generate(t, chpt.T, trainEndTime)); err != nil {
			return nil, err
		}
	}
	return feat, nil
}

func (c ChangepointOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	noCfg := " None"
	if len(c.Changepoints) > 0 {
		noCfg = ""
	}
	if _, err := fmt.Fprintf(w, "%s%sChangepoints:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg); err != nil {
		return err
	}
	if len(c.Changepoints) == 0 {
		return nil
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sName\tDatetime\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	for _, chpt := range c.Changepoints {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			chpt.Name, chpt.T.Format(time.DateOnly)); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
