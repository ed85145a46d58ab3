package forecaster

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/aouyang1/go-forecast-dashboard/forecast"
	"github.com/goccy/go-json"
)

// Model is the serializeable representation of a forecaster. The uncertainty model predicts
// the half width of the band around the series forecast.
type Model struct {
	Series      forecast.Model `json:"series_model"`
	Uncertainty forecast.Model `json:"uncertainty_model"`
}

// ReadModel decodes a model from its JSON representation
func ReadModel(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, fmt.Errorf("unable to decode model, %w", err)
	}
	return m, nil
}

// LoadModel reads the named model file from fsys and initializes a Forecaster from it. Errors
// opening the file are returned as is so callers can match fs.ErrNotExist.
func LoadModel(fsys fs.FS, name string) (*Forecaster, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := ReadModel(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	f, err := NewFromModel(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// WriteModel encodes the model as indented JSON
func WriteModel(w io.Writer, m Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// TablePrint writes a human readable summary of the series and uncertainty models
func (m Model) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Series Model:"); err != nil {
		return err
	}
	if err := m.Series.TablePrint(w, "", "  ", 1); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Uncertainty Model:"); err != nil {
		return err
	}
	return m.Uncertainty.TablePrint(w, "", "  ", 1)
}
