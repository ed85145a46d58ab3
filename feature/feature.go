// Package feature describes the labelled regressors a forecast model is evaluated against. Every
// feature has a string representation used to align model coefficients with generated data.
package feature

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownFeatureType = errors.New("unknown feature type")
	ErrMissingLabel       = errors.New("missing feature label")
)

// FeatureType identifies the family a feature belongs to
type FeatureType string

const (
	FeatureTypeTime        FeatureType = "time"
	FeatureTypeGrowth      FeatureType = "growth"
	FeatureTypeSeasonality FeatureType = "seasonality"
	FeatureTypeChangepoint FeatureType = "changepoint"
	FeatureTypeEvent       FeatureType = "event"
)

// Feature is a single regressor of a forecast model
type Feature interface {
	String() string
	Get(label string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

// Parse rebuilds a feature from its type and the label map produced by Decode.
func Parse(ft FeatureType, labels map[string]string) (Feature, error) {
	name, exists := labels["name"]
	if !exists || name == "" {
		return nil, fmt.Errorf("%s name, %w", ft, ErrMissingLabel)
	}

	switch ft {
	case FeatureTypeTime:
		return NewTime(name), nil
	case FeatureTypeGrowth:
		return NewGrowth(name), nil
	case FeatureTypeEvent:
		return NewEvent(name), nil
	case FeatureTypeChangepoint:
		comp, exists := labels["changepoint_component"]
		if !exists {
			return nil, fmt.Errorf("changepoint component, %w", ErrMissingLabel)
		}
		return NewChangepoint(name, ChangepointComp(comp)), nil
	case FeatureTypeSeasonality:
		comp, exists := labels["fourier_component"]
		if !exists {
			return nil, fmt.Errorf("fourier component, %w", ErrMissingLabel)
		}
		orderStr, exists := labels["order"]
		if !exists {
			return nil, fmt.Errorf("seasonality order, %w", ErrMissingLabel)
		}
		order, err := strconv.Atoi(orderStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse seasonality order %q, %w", orderStr, err)
		}
		return NewSeasonality(name, FourierComp(comp), order), nil
	}
	return nil, fmt.Errorf("%q, %w", ft, ErrUnknownFeatureType)
}

func getName(name, label string) (string, bool) {
	if strings.ToLower(label) == "name" {
		return name, true
	}
	return "", false
}
