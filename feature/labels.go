package feature

// Labels tracks a slice of features and their index positions which match the ordering of
// the coefficients assigned to each feature.
type Labels struct {
	idx    map[string]int
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l.String()] = i
	}
	return &Labels{
		idx:    idx,
		labels: labels,
	}
}

func (l *Labels) Len() int {
	if l == nil {
		return 0
	}
	return len(l.labels)
}

func (l *Labels) Labels() []Feature {
	if l == nil {
		return nil
	}
	labels := make([]Feature, len(l.labels))
	copy(labels, l.labels)
	return labels
}

// Index returns the coefficient position of the feature
func (l *Labels) Index(f Feature) (int, bool) {
	if l == nil {
		return -1, false
	}
	if idx, exists := l.idx[f.String()]; exists {
		return idx, true
	}
	return -1, false
}
