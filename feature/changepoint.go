package feature

import (
	"fmt"
	"strings"
	"time"
)

type ChangepointComp string

const (
	ChangepointCompBias  ChangepointComp = "bias"
	ChangepointCompSlope ChangepointComp = "slope"
)

// Changepoint is a jump (bias) or a trend change (slope) starting at a point in time
type Changepoint struct {
	Name            string          `json:"name"`
	ChangepointComp ChangepointComp `json:"changepoint_component"`
}

func NewChangepoint(name string, comp ChangepointComp) *Changepoint {
	return &Changepoint{name, comp}
}

func (c Changepoint) String() string {
	return fmt.Sprintf("chpnt_%s_%s", c.Name, c.ChangepointComp)
}

func (c Changepoint) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	case "changepoint_component":
		return string(c.ChangepointComp), true
	}
	return "", false
}

func (c Changepoint) Type() FeatureType {
	return FeatureTypeChangepoint
}

func (c Changepoint) Decode() map[string]string {
	return map[string]string{
		"name":                  c.Name,
		"changepoint_component": string(c.ChangepointComp),
	}
}

// Generate evaluates the changepoint at each time. The bias is 1 from the changepoint onward.
// The slope grows from 0 at the changepoint to 1 at the training end time.
func (c Changepoint) Generate(t []time.Time, chptTime, trainEndTime time.Time) []float64 {
	res := make([]float64, len(t))
	delta := trainEndTime.Sub(chptTime).Seconds()
	for i, tPnt := range t {
		if tPnt.Before(chptTime) {
			continue
		}
		switch c.ChangepointComp {
		case ChangepointCompBias:
			res[i] = 1.0
		case ChangepointCompSlope:
			if delta > 0 {
				res[i] = tPnt.Sub(chptTime).Seconds() / delta
			}
		}
	}
	return res
}
