package fetchers

import (
	"fmt"
	"time"

	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
)

const DefaultLookbackDays = 30

// Window is the billing interval queried from Cost Explorer. End is exclusive.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity cetypes.Granularity
}

// NewWindow builds a window from explicit YYYY-MM-DD bounds, falling back to
// lookbackDays before now for whichever bound is empty.
func NewWindow(start, end string, lookbackDays int, granularity string, now time.Time) (Window, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	w := Window{
		End:         now.UTC().Truncate(24 * time.Hour),
		Granularity: cetypes.GranularityMonthly,
	}
	if end != "" {
		t, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return Window{}, fmt.Errorf("invalid window end %q: %w", end, err)
		}
		w.End = t
	}
	w.Start = w.End.AddDate(0, 0, -lookbackDays)
	if start != "" {
		t, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return Window{}, fmt.Errorf("invalid window start %q: %w", start, err)
		}
		w.Start = t
	}
	if !w.Start.Before(w.End) {
		return Window{}, fmt.Errorf("window start %s is not before end %s",
			w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
	}

	if granularity != "" {
		g := cetypes.Granularity(granularity)
		if !isGranularity(g) {
			return Window{}, fmt.Errorf("unsupported granularity: %s", granularity)
		}
		w.Granularity = g
	}

	return w, nil
}

func (w Window) interval() *cetypes.DateInterval {
	start := w.Start.Format(time.DateOnly)
	end := w.End.Format(time.DateOnly)
	return &cetypes.DateInterval{Start: &start, End: &end}
}

func isGranularity(g cetypes.Granularity) bool {
	for _, v := range g.Values() {
		if v == g {
			return true
		}
	}
	return false
}

// WindowFunc resolves the query window for a run started at now.
type WindowFunc func(now time.Time) (Window, error)

// RollingWindow checks the settings against the current clock and returns a
// WindowFunc that recomputes relative bounds on every call.
func RollingWindow(start, end string, lookbackDays int, granularity string) (WindowFunc, error) {
	if _, err := NewWindow(start, end, lookbackDays, granularity, time.Now()); err != nil {
		return nil, err
	}
	return func(now time.Time) (Window, error) {
		return NewWindow(start, end, lookbackDays, granularity, now)
	}, nil
}

func FixedWindow(w Window) WindowFunc {
	return func(time.Time) (Window, error) {
		return w, nil
	}
}
