// Package modelstore loads the pre-trained forecast model of every indicator once per process
// and hands out the same set of models on every later call.
package modelstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/forecast"
	"github.com/aouyang1/go-forecast-dashboard/forecaster"
	"github.com/aouyang1/go-forecast-dashboard/indicator"
)

var (
	// ErrModelNotFound matches fs.ErrNotExist with errors.Is
	ErrModelNotFound = fmt.Errorf("model file not found, %w", fs.ErrNotExist)
	ErrInvalidModel  = errors.New("invalid model file")
)

// Model forecasts a single point in time. *forecaster.Forecaster satisfies it.
type Model interface {
	PredictOne(t time.Time) (forecaster.Point, error)
}

// Describer is implemented by models that can report how they were trained
type Describer interface {
	TrainEndTime() time.Time
	Scores() forecast.Scores
	SeriesModelEq() (string, error)
	UncertaintyModelEq() (string, error)
}

// Models maps an indicator key to its loaded model
type Models map[string]Model

// LoadFunc reads a single model file from fsys
type LoadFunc func(fsys fs.FS, name string) (Model, error)

// Recorder observes model loads
type Recorder interface {
	RecordModelLoad(metric string, seconds float64, err error)
}

// Store lazily loads one model per indicator. A successful load is cached for the lifetime of
// the store and never invalidated. A failed load is not cached.
type Store struct {
	fsys     fs.FS
	metrics  []indicator.Metric
	load     LoadFunc
	recorder Recorder

	mu     sync.Mutex
	models Models
}

// Option configures a Store
type Option func(*Store)

// WithMetrics overrides the indicators loaded by the store
func WithMetrics(metrics ...indicator.Metric) Option {
	return func(s *Store) {
		s.metrics = metrics
	}
}

// WithLoadFunc overrides how model files are read
func WithLoadFunc(load LoadFunc) Option {
	return func(s *Store) {
		s.load = load
	}
}

// WithRecorder records the duration and outcome of every model file load
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// New creates a store reading model files from fsys
func New(fsys fs.FS, opts ...Option) *Store {
	s := &Store{
		fsys:    fsys,
		metrics: indicator.All(),
		load:    loadForecaster,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromDir creates a store reading model files from a directory on disk
func NewFromDir(dir string, opts ...Option) *Store {
	return New(os.DirFS(dir), opts...)
}

func loadForecaster(fsys fs.FS, name string) (Model, error) {
	return forecaster.LoadModel(fsys, name)
}

// Load returns the model of every indicator, reading the model files on the first successful
// call only. If any model file is missing the whole load fails with ErrModelNotFound and no
// models are returned.
func (s *Store) Load() (Models, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.models != nil {
		return s.models, nil
	}

	models := make(Models, len(s.metrics))
	for _, m := range s.metrics {
		start := time.Now()
		model, err := s.load(s.fsys, m.File)
		if s.recorder != nil {
			s.recorder.RecordModelLoad(m.Key, time.Since(start).Seconds(), err)
		}
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%s, %w", m.File, ErrModelNotFound)
			}
			return nil, fmt.Errorf("%s, %w: %w", m.File, ErrInvalidModel, err)
		}
		models[m.Key] = model
	}
	s.models = models
	return s.models, nil
}

// Loaded reports whether the models were already read
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.models != nil
}

// Metrics returns the indicators served by the store in display order
func (s *Store) Metrics() []indicator.Metric {
	return s.metrics
}

// Info describes a loaded model
type Info struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	File         string          `json:"file"`
	TrainEndTime time.Time       `json:"train_end_time"`
	Scores       forecast.Scores `json:"scores"`
	Equation     string          `json:"equation,omitempty"`

	// UncertaintyEquation models the width of the forecast bounds
	UncertaintyEquation string `json:"uncertainty_equation,omitempty"`
}

// Info loads the models if needed and describes each one in display order
func (s *Store) Info() ([]Info, error) {
	models, err := s.Load()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(s.metrics))
	for _, m := range s.metrics {
		info := Info{
			Key:   m.Key,
			Label: m.Label,
			File:  m.File,
		}
		if d, ok := models[m.Key].(Describer); ok {
			info.TrainEndTime = d.TrainEndTime()
			info.Scores = d.Scores()
			if eq, err := d.SeriesModelEq(); err == nil {
				info.Equation = eq
			}
			if eq, err := d.UncertaintyModelEq(); err == nil {
				info.UncertaintyEquation = eq
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
