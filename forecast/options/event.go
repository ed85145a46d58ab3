package options

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/feature"
	"github.com/aouyang1/go-forecast-dashboard/forecast/util"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var (
	ErrStartAfterEnd  = errors.New("event start time is after end time")
	ErrUnsetTime      = errors.New("unset event start or end time")
	ErrNoEventName    = errors.New("no event name")
	ErrUnknownHoliday = errors.New("unknown holiday")
)

// holidays maps the holiday names accepted in model options to their calendar definition
var holidays = map[string]*cal.Holiday{
	"christmas":    us.ChristmasDay,
	"thanksgiving": us.ThanksgivingDay,
}

// Event represents a time span modelled with its own bias
type Event struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

func (e *Event) Valid() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return ErrUnsetTime
	}
	if e.Start.After(e.End) {
		return ErrStartAfterEnd
	}
	if e.Name == "" {
		return ErrNoEventName
	}
	return nil
}

// HolidayConfig names a recurring holiday which expands into one event per year
type HolidayConfig struct {
	Name      string        `json:"name"`
	DurBefore time.Duration `json:"duration_before"`
	DurAfter  time.Duration `json:"duration_after"`
}

func (h HolidayConfig) holiday() (*cal.Holiday, error) {
	hol, exists := holidays[strings.ToLower(h.Name)]
	if !exists {
		return nil, fmt.Errorf("%q, %w", h.Name, ErrUnknownHoliday)
	}
	return hol, nil
}

// Holiday generates an event for every observance of the holiday between start and end
func Holiday(hol *cal.Holiday, start, end time.Time, durBefore, durAfter time.Duration) []Event {
	startLoc := start.Location()
	_, startOffset := start.Zone()

	events := []Event{}
	for year := start.Year(); year <= end.Year(); year++ {
		_, observed := hol.Calc(year)
		_, offset := observed.Zone()

		// keep the wall clock date of the holiday in the location of the input
		observed = observed.Add(time.Duration(offset) * time.Second).In(startLoc).Add(time.Duration(-startOffset) * time.Second)
		if observed.Before(start) || observed.After(end) {
			continue
		}
		events = append(events, Event{
			Name:  strings.ReplaceAll(hol.Name, " ", "_") + "_" + strconv.Itoa(year),
			Start: observed.Add(-durBefore),
			End:   observed.Add(24 * time.Hour).Add(durAfter),
		})
	}
	return events
}

// EventOptions lists the explicit events and recurring holidays a model was fit with
type EventOptions struct {
	Events   []Event         `json:"events"`
	Holidays []HolidayConfig `json:"holidays"`
}

// GenerateFeatures builds an event mask per valid event. Holidays are expanded over the
// calendar years covered by the input times.
func (e EventOptions) GenerateFeatures(t []time.Time) (*feature.Set, error) {
	feat := feature.NewSet(len(t))
	if len(t) == 0 {
		return feat, nil
	}

	events := make([]Event, 0, len(e.Events))
	events = append(events, e.Events...)

	if len(e.Holidays) > 0 {
		minT, maxT := t[0], t[0]
		for _, tPnt := range t {
			if tPnt.Before(minT) {
				minT = tPnt
			}
			if tPnt.After(maxT) {
				maxT = tPnt
			}
		}
		loc := minT.Location()
		start := time.Date(minT.Year(), 1, 1, 0, 0, 0, 0, loc)
		end := time.Date(maxT.Year(), 12, 31, 23, 59, 59, 0, loc)
		for _, h := range e.Holidays {
			hol, err := h.holiday()
			if err != nil {
				return nil, err
			}
			events = append(events, Holiday(hol, start, end, h.DurBefore, h.DurAfter)...)
		}
	}

	for _, ev := range events {
		if err := ev.Valid(); err != nil {
			slog.Warn("not separately modelling invalid event", "name", ev.Name, "error", err.Error())
			continue
		}
		f := feature.NewEvent(strings.ReplaceAll(ev.Name, " ", "_"))
		if _, exists := feat.Get(f); exists {
			slog.Warn("duplicate event, keeping first occurrence", "name", ev.Name)
			continue
		}
		if err := feat.Set(f, f.Generate(t, ev.Start, ev.End)); err != nil {
			return nil, err
		}
	}
	return feat, nil
}

func (e EventOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	noCfg := " None"
	if len(e.Events) > 0 || len(e.Holidays) > 0 {
		noCfg = ""
	}
	if _, err := fmt.Fprintf(w, "%s%sEvents:%s\n", prefix, util.IndentExpand(indent, indentGrowth), noCfg); err != nil {
		return err
	}
	if noCfg != "" {
		return nil
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sName\tStart\tEnd\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	for _, ev := range e.Events {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			ev.Name, ev.Start.Format(time.DateOnly), ev.End.Format(time.DateOnly)); err != nil {
			return err
		}
	}
	for _, h := range e.Holidays {
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t-%s\t+%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			h.Name, h.DurBefore, h.DurAfter); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
