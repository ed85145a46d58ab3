package main

import (
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/indicator"
	"github.com/aouyang1/go-forecast-dashboard/predict"
	"github.com/stretchr/testify/assert"
)

func TestRenderCards(t *testing.T) {
	res := &predict.Result{
		Date: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Values: map[string]float64{
			indicator.GDP.Label:            5.12,
			indicator.LifeExpectancy.Label: 70.25,
			indicator.Population.Label:     0.031,
			indicator.GDPPerCapita.Label:   1200,
		},
		Bounds: map[string]predict.Bound{
			indicator.GDP.Label: {Lower: 4.5, Upper: 5.75},
		},
	}

	out := renderCards(res, indicator.All())
	for _, e := range []string{"$5.12 B", "70.2 Yrs", "0.031 B", "$1200", "$4.50 B to $5.75 B"} {
		assert.Contains(t, out, e)
	}
	for _, m := range indicator.All() {
		assert.Contains(t, out, m.Title)
	}
}

func TestRenderHorizon(t *testing.T) {
	metrics := []indicator.Metric{indicator.GDP}
	horizon := []*predict.Result{
		{Date: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), Values: map[string]float64{indicator.GDP.Label: 5}},
		{Date: time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC), Values: map[string]float64{indicator.GDP.Label: 6}},
	}

	out := renderHorizon(horizon, metrics)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], indicator.GDP.Unit)
	assert.Contains(t, lines[1], "2030-01-01")
	assert.Contains(t, lines[2], "$6.00 B")
}
