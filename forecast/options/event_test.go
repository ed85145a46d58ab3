package options

import (
	"testing"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoliday(t *testing.T) {
	testData := map[string]struct {
		hol       *cal.Holiday
		start     time.Time
		end       time.Time
		durBefore time.Duration
		durAfter  time.Duration
		expected  []Event
	}{
		"no coverage": {
			hol:      us.ChristmasDay,
			start:    time.Date(2024, 12, 8, 1, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 12, 12, 1, 0, 0, 0, time.UTC),
			expected: []Event{},
		},
		"multiple years": {
			hol:   us.ChristmasDay,
			start: time.Date(2024, 12, 8, 1, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 12, 8, 1, 0, 0, 0, time.UTC),
			expected: []Event{
				{
					"Christmas_Day_2024",
					time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC),
				},
				{
					"Christmas_Day_2025",
					time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
					time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		"with buffer": {
			hol:       us.ChristmasDay,
			start:     time.Date(2024, 12, 8, 1, 0, 0, 0, time.UTC),
			end:       time.Date(2025, 12, 8, 1, 0, 0, 0, time.UTC),
			durBefore: 24 * time.Hour,
			durAfter:  2 * 24 * time.Hour,
			expected: []Event{
				{
					"Christmas_Day_2024",
					time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := Holiday(td.hol, td.start, td.end, td.durBefore, td.durAfter)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestEventValid(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		ev  Event
		err error
	}{
		"unset start time": {
			ev:  Event{Name: "e", End: now},
			err: ErrUnsetTime,
		},
		"unset end time": {
			ev:  Event{Name: "e", Start: now},
			err: ErrUnsetTime,
		},
		"start after end": {
			ev:  NewEvent("e", now.Add(time.Hour), now),
			err: ErrStartAfterEnd,
		},
		"no name": {
			ev:  NewEvent("", now, now.Add(time.Hour)),
			err: ErrNoEventName,
		},
		"valid": {
			ev: NewEvent("e", now, now.Add(time.Hour)),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, td.ev.Valid(), td.err)
		})
	}
}

func TestEventOptionsGenerateFeaturesWithHolidays(t *testing.T) {
	tSeries := []time.Time{
		time.Date(2030, 12, 25, 12, 0, 0, 0, time.UTC),
		time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	e := EventOptions{
		Holidays: []HolidayConfig{{Name: "Christmas"}},
	}

	feat, err := e.GenerateFeatures(tSeries)
	require.NoError(t, err)
	assert.Equal(t, 2, feat.Len(), "one event per covered year")

	mask, exists := feat.Get(feature.NewEvent("Christmas_Day_2030"))
	require.True(t, exists)
	assert.Equal(t, []float64{1, 0}, mask)

	mask, exists = feat.Get(feature.NewEvent("Christmas_Day_2031"))
	require.True(t, exists)
	assert.Equal(t, []float64{0, 0}, mask)

	_, err = EventOptions{Holidays: []HolidayConfig{{Name: "tihar"}}}.GenerateFeatures(tSeries)
	assert.ErrorIs(t, err, ErrUnknownHoliday)
}
