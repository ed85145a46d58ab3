// Command forecast prints the forecast of every indicator for a date in the terminal.
//
//	forecast -models ./models -date 2030-01-01
//	forecast -models ./models -inspect
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/forecaster"
	"github.com/aouyang1/go-forecast-dashboard/indicator"
	"github.com/aouyang1/go-forecast-dashboard/logger"
	"github.com/aouyang1/go-forecast-dashboard/modelstore"
	"github.com/aouyang1/go-forecast-dashboard/predict"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("usage error")

const msgModelsNotFound = "Model files not found. Please ensure the model files are in the model directory."

type runOptions struct {
	modelDir string
	date     string
	years    int
	inspect  bool
}

func main() {
	var opt runOptions
	flag.StringVar(&opt.modelDir, "models", "models", "directory holding the model files")
	flag.StringVar(&opt.date, "date", predict.DefaultDate.Format(time.DateOnly), "date to forecast as YYYY-MM-DD")
	flag.IntVar(&opt.years, "years", 0, "also print a yearly forecast table for this many years")
	flag.BoolVar(&opt.inspect, "inspect", false, "print the model details instead of a forecast")
	flag.Parse()

	l := logger.NewWithWriter(logger.Config{Format: "console"}, os.Stderr).Level(zerolog.WarnLevel)
	if err := run(os.Stdout, opt, l); err != nil {
		if errors.Is(err, modelstore.ErrModelNotFound) {
			fmt.Fprintln(os.Stderr, msgModelsNotFound)
		}
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(w io.Writer, opt runOptions, l zerolog.Logger) error {
	fsys := os.DirFS(opt.modelDir)
	if opt.inspect {
		return inspect(w, fsys)
	}

	date, err := time.Parse(time.DateOnly, opt.date)
	if err != nil {
		return fmt.Errorf("%w: invalid -date %q, expected YYYY-MM-DD", errUsage, opt.date)
	}

	store := modelstore.New(fsys)
	cache := predict.New(store)
	res, err := cache.Predict(date)
	if err != nil {
		if errors.Is(err, modelstore.ErrModelNotFound) {
			l.Error().Err(err).Str("dir", opt.modelDir).Msg("model files not found")
		}
		return err
	}
	if _, err := fmt.Fprintln(w, renderCards(res, cache.Metrics())); err != nil {
		return err
	}

	if opt.years < 1 {
		return nil
	}
	horizon, err := cache.Horizon(date, opt.years)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, renderHorizon(horizon, cache.Metrics()))
	return err
}

// inspect prints the training window, options and weights of every model
func inspect(w io.Writer, fsys fs.FS) error {
	for _, m := range indicator.All() {
		f, err := forecaster.LoadModel(fsys, m.File)
		if err != nil {
			return fmt.Errorf("unable to load %s model, %w", m.Key, err)
		}
		model, err := f.Model()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(m.Label), m.File); err != nil {
			return err
		}
		if err := model.TablePrint(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
