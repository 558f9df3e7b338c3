package syncattempt

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Attempt is one claimed post-match sync, unique on (MatchID, Offset).
type Attempt struct {
	MatchID     string
	Offset      int
	Status      Status
	AttemptedAt time.Time
	FinishedAt  time.Time
	Error       string
}

// Offset is a delay after the match end plus the window it remains due for.
type Offset struct {
	Delay     time.Duration
	Tolerance time.Duration
}

// Due reports whether end+Delay <= now <= end+Delay+Tolerance.
func (o Offset) Due(end, now time.Time) bool {
	opens := end.Add(o.Delay)
	closes := opens.Add(o.Tolerance)
	return !now.Before(opens) && !now.After(closes)
}

func DefaultOffsets() []Offset {
	return []Offset{
		{Delay: 30 * time.Minute, Tolerance: 20 * time.Minute},
		{Delay: 3 * time.Hour, Tolerance: time.Hour},
	}
}

// ParseOffsets reads "delay/tolerance" pairs separated by commas, e.g. "30m/20m,3h/1h".
func ParseOffsets(raw string) ([]Offset, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOffsets(), nil
	}

	parts := strings.Split(raw, ",")
	out := make([]Offset, 0, len(parts))
	for _, part := range parts {
		delayRaw, toleranceRaw, ok := strings.Cut(strings.TrimSpace(part), "/")
		if !ok {
			return nil, fmt.Errorf("offset %q must be delay/tolerance", part)
		}
		delay, err := time.ParseDuration(strings.TrimSpace(delayRaw))
		if err != nil {
			return nil, fmt.Errorf("parse offset delay %q: %w", delayRaw, err)
		}
		tolerance, err := time.ParseDuration(strings.TrimSpace(toleranceRaw))
		if err != nil {
			return nil, fmt.Errorf("parse offset tolerance %q: %w", toleranceRaw, err)
		}
		if delay < 0 || tolerance <= 0 {
			return nil, fmt.Errorf("offset %q must have delay >= 0 and tolerance > 0", part)
		}
		out = append(out, Offset{Delay: delay, Tolerance: tolerance})
	}
	return out, nil
}
