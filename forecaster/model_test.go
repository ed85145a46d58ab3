package forecaster

import (
	"bytes"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModel(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.json": &fstest.MapFile{Data: []byte(`{"series_model": `)},
		"empty.json":  &fstest.MapFile{Data: []byte(`{}`)},
	}

	testData := map[string]struct {
		name string
		err  error
	}{
		"missing file": {
			name: "missing.json",
			err:  fs.ErrNotExist,
		},
		"no series model": {
			name: "empty.json",
			err:  ErrNoSeriesModel,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := LoadModel(fsys, td.name)
			assert.ErrorIs(t, err, td.err)
		})
	}

	_, err := LoadModel(fsys, "broken.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode model")
}

func TestWriteModelRoundTrip(t *testing.T) {
	f := loadTestForecaster(t)
	m, err := f.Model()
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, WriteModel(&b, m))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/roundtrip.json", b.Bytes(), 0o644))

	reloaded, err := LoadModel(os.DirFS(dir), "roundtrip.json")
	require.NoError(t, err)

	tSeries := []time.Time{trainStart, trainEnd.AddDate(10, 0, 0)}
	expected, err := f.Predict(tSeries)
	require.NoError(t, err)
	actual, err := reloaded.Predict(tSeries)
	require.NoError(t, err)
	assert.Equal(t, expected.Forecast, actual.Forecast)
	assert.Equal(t, expected.Upper, actual.Upper)
}

func TestReadModel(t *testing.T) {
	m, err := ReadModel(strings.NewReader(`{"series_model": {"train_end_time": "2020-01-01T00:00:00Z"}}`))
	require.NoError(t, err)
	assert.Equal(t, trainEnd, m.Series.TrainEndTime)
	assert.Nil(t, m.Series.Options)
}

func TestModelTablePrint(t *testing.T) {
	m, err := loadTestForecaster(t).Model()
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, m.TablePrint(&b))
	out := b.String()
	assert.Contains(t, out, "Series Model:")
	assert.Contains(t, out, "Uncertainty Model:")
	assert.Contains(t, out, "Training Window: 1990-01-01 to 2020-01-01")
	assert.Contains(t, out, "c2008")
}
