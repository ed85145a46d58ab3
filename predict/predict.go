// Package predict turns a calendar date into the rounded forecast of every indicator. Results
// are memoized per date for the lifetime of the cache.
package predict

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/indicator"
	"github.com/aouyang1/go-forecast-dashboard/modelstore"
)

var (
	ErrNoModel        = errors.New("no model loaded for indicator")
	ErrInvalidHorizon = errors.New("horizon must be at least one year")
)

// DefaultDate is the date forecasted when none is requested
var DefaultDate = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// Loader provides the loaded models. *modelstore.Store satisfies it.
type Loader interface {
	Load() (modelstore.Models, error)
}

// Recorder observes predictions
type Recorder interface {
	RecordPrediction(cacheHit bool, seconds float64)
}

// Bound is the rounded uncertainty band of a forecast
type Bound struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Result holds the rounded forecast of every indicator for one date. Results are shared between
// callers and must not be modified.
type Result struct {
	Date   time.Time          `json:"date"`
	Values map[string]float64 `json:"values"` // keyed by indicator label
	Bounds map[string]Bound   `json:"bounds"`
}

// Day returns the forecasted date formatted as YYYY-MM-DD
func (r *Result) Day() string {
	return r.Date.Format(time.DateOnly)
}

// Cache memoizes predictions by calendar date. The lock is held across a miss so the models
// are invoked at most once per date.
type Cache struct {
	loader   Loader
	metrics  []indicator.Metric
	recorder Recorder

	mu      sync.Mutex
	results map[string]*Result
}

// Option configures a Cache
type Option func(*Cache)

// WithMetrics overrides the indicators predicted
func WithMetrics(metrics ...indicator.Metric) Option {
	return func(c *Cache) {
		c.metrics = metrics
	}
}

// WithRecorder records every prediction and whether it was served from the cache
func WithRecorder(r Recorder) Option {
	return func(c *Cache) {
		c.recorder = r
	}
}

// New creates an empty prediction cache over the loader's models
func New(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		loader:  loader,
		metrics: indicator.All(),
		results: make(map[string]*Result),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Predict forecasts every indicator for the calendar date of t. Repeated calls for the same
// date return the cached result without invoking the models.
func (c *Cache) Predict(t time.Time) (*Result, error) {
	start := time.Now()
	date := Day(t)
	key := date.Format(time.DateOnly)

	c.mu.Lock()
	defer c.mu.Unlock()

	if res, exists := c.results[key]; exists {
		c.record(true, start)
		return res, nil
	}

	models, err := c.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to load models, %w", err)
	}

	res := &Result{
		Date:   date,
		Values: make(map[string]float64, len(c.metrics)),
		Bounds: make(map[string]Bound, len(c.metrics)),
	}
	for _, m := range c.metrics {
		model, exists := models[m.Key]
		if !exists {
			return nil, fmt.Errorf("%s, %w", m.Key, ErrNoModel)
		}
		p, err := model.PredictOne(date)
		if err != nil {
			return nil, fmt.Errorf("unable to predict %s for %s, %w", m.Key, key, err)
		}
		res.Values[m.Label] = m.Round(p.Forecast)
		res.Bounds[m.Label] = Bound{
			Lower: m.Round(p.Lower),
			Upper: m.Round(p.Upper),
		}
	}
	c.results[key] = res
	c.record(false, start)
	return res, nil
}

func (c *Cache) record(hit bool, start time.Time) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordPrediction(hit, time.Since(start).Seconds())
}

// Horizon forecasts from the date of t and then once a year for the given number of years,
// returning years+1 results in chronological order.
func (c *Cache) Horizon(t time.Time, years int) ([]*Result, error) {
	if years < 1 {
		return nil, ErrInvalidHorizon
	}
	from := Day(t)
	results := make([]*Result, 0, years+1)
	for i := 0; i <= years; i++ {
		res, err := c.Predict(from.AddDate(i, 0, 0))
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Len returns the number of memoized dates
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Metrics returns the predicted indicators in display order
func (c *Cache) Metrics() []indicator.Metric {
	return c.metrics
}
