package feature

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrObservationMismatch = errors.New("feature data has a different number of observations than the set")

// Set stores generated feature data keyed by the string representation of each feature.
// All features in a set share the same number of observations.
type Set struct {
	m        int
	data     map[string][]float64
	features map[string]Feature
}

// NewSet creates an empty set for m observations
func NewSet(m int) *Set {
	return &Set{
		m:        m,
		data:     make(map[string][]float64),
		features: make(map[string]Feature),
	}
}

// Observations returns the number of rows each feature holds
func (s *Set) Observations() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Len returns the number of features in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Set stores the feature data overwriting any previous data of the same feature
func (s *Set) Set(f Feature, data []float64) error {
	if len(data) != s.m {
		return fmt.Errorf("%s has %d observations, expected %d, %w", f, len(data), s.m, ErrObservationMismatch)
	}
	label := f.String()
	s.data[label] = data
	s.features[label] = f
	return nil
}

func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	data, exists := s.data[f.String()]
	return data, exists
}

// Update copies every feature of the other set into this one
func (s *Set) Update(other *Set) error {
	if other == nil {
		return nil
	}
	for label, f := range other.features {
		if err := s.Set(f, other.data[label]); err != nil {
			return err
		}
	}
	return nil
}

// Filter returns a new set with only the features of the given types
func (s *Set) Filter(types ...FeatureType) *Set {
	res := NewSet(s.Observations())
	if s == nil {
		return res
	}
	for label, f := range s.features {
		for _, ft := range types {
			if f.Type() == ft {
				res.data[label] = s.data[label]
				res.features[label] = f
				break
			}
		}
	}
	return res
}

// Labels returns the features sorted by their string representation
func (s *Set) Labels() *Labels {
	if s == nil {
		return NewLabels(nil)
	}
	labels := make([]Feature, 0, len(s.features))
	for _, f := range s.features {
		labels = append(labels, f)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].String() < labels[j].String()
	})
	return NewLabels(labels)
}

// Matrix returns the set as an m x n matrix with a leading column of ones when intercept
// is set. Columns follow the ordering of Labels.
func (s *Set) Matrix(intercept bool) *mat.Dense {
	labels := s.Labels().Labels()
	n := len(labels)
	if intercept {
		n++
	}
	if s.Observations() == 0 || n == 0 {
		return nil
	}

	mx := mat.NewDense(s.m, n, nil)
	col := 0
	if intercept {
		ones := make([]float64, s.m)
		floats.AddConst(1.0, ones)
		mx.SetCol(col, ones)
		col++
	}
	for _, f := range labels {
		mx.SetCol(col, s.data[f.String()])
		col++
	}
	return mx
}
