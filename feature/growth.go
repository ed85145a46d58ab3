package feature

import (
	"fmt"
	"time"
)

const (
	GrowthLinear    = "linear"
	GrowthQuadratic = "quadratic"
)

// Growth models the trend of a series relative to its training window where the training
// start maps to 0 and the training end maps to 1.
type Growth struct {
	Name string `json:"name"`
}

func NewGrowth(name string) *Growth {
	return &Growth{name}
}

func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

func Quadratic() *Growth {
	return NewGrowth(GrowthQuadratic)
}

func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

func (g Growth) Get(label string) (string, bool) {
	return getName(g.Name, label)
}

func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

func (g Growth) Decode() map[string]string {
	return map[string]string{"name": g.Name}
}

// Generate evaluates the growth curve for each epoch second. Returns nil if the training
// window is empty or the growth name is unknown.
func (g Growth) Generate(epoch []float64, trainStartTime, trainEndTime time.Time) []float64 {
	window := trainEndTime.Sub(trainStartTime).Seconds()
	if window <= 0 {
		return nil
	}
	start := float64(trainStartTime.UnixNano()) / 1e9

	res := make([]float64, len(epoch))
	for i, e := range epoch {
		x := (e - start) / window
		switch g.Name {
		case GrowthLinear:
			res[i] = x
		case GrowthQuadratic:
			res[i] = x * x
		default:
			return nil
		}
	}
	return res
}
