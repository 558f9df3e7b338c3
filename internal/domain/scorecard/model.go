package scorecard

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnrecognizedShape = errors.New("unrecognized scorecard shape")

// ShapeError reports the first path where none of the known key variants was present.
type ShapeError struct {
	Path string
	Keys []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s at %s: expected one of [%s]", ErrUnrecognizedShape, e.Path, strings.Join(e.Keys, ", "))
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrUnrecognizedShape
}

// Scorecard is a decoded match scorecard across all innings.
type Scorecard struct {
	Innings     []Innings
	PlayingXI   []string
	Substitutes []string
	// Ended is the scorecard-root completion indicator.
	Ended bool
}

type Innings struct {
	Label    string
	Batting  []BattingEntry
	Bowling  []BowlingEntry
	Fielding []FieldingEntry
}

type BattingEntry struct {
	Name      string
	Runs      int
	Balls     int
	Fours     int
	Sixes     int
	Dismissal string
}

// Dismissed reports whether the dismissal text records the batter as out.
func (b BattingEntry) Dismissed() bool {
	text := strings.ToLower(strings.TrimSpace(b.Dismissal))
	switch text {
	case "", "not out", "batting", "retired hurt", "retired not out", "did not bat", "dnb", "absent hurt", "yet to bat":
		return false
	}
	return !strings.HasPrefix(text, "not out")
}

type BowlingEntry struct {
	Name    string
	Balls   int
	Maidens int
	Runs    int
	Wickets int
	Dots    int
}

type FieldingEntry struct {
	Name      string
	Catches   int
	Stumpings int
}

// Names returns every raw name that appears anywhere in the scorecard, in first-seen order.
func (s Scorecard) Names() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 32)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, inn := range s.Innings {
		for _, item := range inn.Batting {
			add(item.Name)
		}
		for _, item := range inn.Bowling {
			add(item.Name)
		}
		for _, item := range inn.Fielding {
			add(item.Name)
		}
	}
	return out
}
