// Package trace loads recorded viewport widths and replays them through a
// breakpoint tracker.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/resize"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

// ErrEmptyTrace is returned when a trace holds no usable samples.
var ErrEmptyTrace = errors.New("trace has no samples")

// Sample is one recorded width. At is optional.
type Sample struct {
	Width  int       `json:"width"`
	Height int       `json:"height,omitempty"`
	At     time.Time `json:"at,omitzero"`
}

// Load reads samples from a JSONL file, one {"width": N} object per line.
func Load(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Read parses JSONL samples from r. Blank lines, malformed lines and
// negative widths are skipped.
func Read(r io.Reader) ([]Sample, error) {
	var samples []Sample
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var s Sample
		if err := json.Unmarshal(line, &s); err != nil || s.Width < 0 {
			continue
		}
		samples = append(samples, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading trace: %w", err)
	}
	return samples, nil
}

// Event is a crossing produced while replaying a sample.
type Event struct {
	Sample   int
	Crossing breakpoints.Crossing
	Active   string
}

// Replay initialises a tracker at the first sample and feeds the rest
// through a resize notifier, returning every crossing in order.
func Replay(ts breakpoints.Thresholds, samples []Sample, log *slog.Logger, observers ...breakpoints.Observer) ([]Event, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyTrace
	}

	width := samples[0].Width
	notifier := resize.NewNotifier(0, log)
	tracker := breakpoints.New(notifier, viewport.Func(func() int { return width }), breakpoints.Options{
		Logger:    log,
		Observers: observers,
	})

	var events []Event
	current := 0
	record := func(c breakpoints.Crossing) {
		events = append(events, Event{Sample: current, Crossing: c, Active: tracker.Current()})
	}
	for _, name := range ts.Names() {
		tracker.Up(name, record).Down(name, record)
	}
	tracker.Init(ts)
	defer tracker.Destroy()

	for i, s := range samples[1:] {
		current = i + 1
		width = s.Width
		notifier.Notify(resize.Size{Width: s.Width, Height: s.Height})
	}
	return events, nil
}
