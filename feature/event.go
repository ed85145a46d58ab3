package feature

import (
	"fmt"
	"time"
)

// Event marks a span of time that is modelled with its own bias
type Event struct {
	Name string `json:"name"`
}

func NewEvent(name string) *Event {
	return &Event{name}
}

func (e Event) String() string {
	return fmt.Sprintf("event_%s", e.Name)
}

func (e Event) Get(label string) (string, bool) {
	return getName(e.Name, label)
}

func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}

func (e Event) Decode() map[string]string {
	return map[string]string{"name": e.Name}
}

// Generate returns a mask that is 1 for times within [start, end) and 0 otherwise
func (e Event) Generate(t []time.Time, start, end time.Time) []float64 {
	mask := make([]float64, len(t))
	for i, tPnt := range t {
		if !tPnt.Before(start) && tPnt.Before(end) {
			mask[i] = 1.0
		}
	}
	return mask
}
