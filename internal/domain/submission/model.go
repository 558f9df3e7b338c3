package submission

import (
	"errors"
	"fmt"
	"time"
)

var ErrDuplicate = errors.New("submission already exists")

type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

// Effective is the roster scoring uses for a match after super-sub resolution.
// Names are canonical keys.
type Effective struct {
	RosterKeys      []string  `json:"roster_keys"`
	CaptainName     string    `json:"captain_name"`
	ViceCaptainName string    `json:"vice_captain_name"`
	Applied         bool      `json:"applied"`
	Engaged         bool      `json:"engaged"`
	ReplacedName    string    `json:"replaced_name,omitempty"`
	SuperSubName    string    `json:"super_sub_name,omitempty"`
	ResolvedAt      time.Time `json:"resolved_at"`
}

// Submission is the roster a user committed for one match. Unique on (UserID, MatchID).
type Submission struct {
	ID            string
	UserID        string
	TeamID        string
	MatchID       string
	MatchDate     string
	MatchStartAt  time.Time
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	SuperSubID    string
	Source        Source
	SubmittedAt   time.Time
	Effective     *Effective
}

func (s Submission) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("submission id is required")
	}
	if s.UserID == "" || s.TeamID == "" || s.MatchID == "" {
		return fmt.Errorf("submission user, team and match are required")
	}
	if len(s.PlayerIDs) == 0 {
		return fmt.Errorf("submission roster is required")
	}
	if s.Source != SourceManual && s.Source != SourceAuto {
		return fmt.Errorf("invalid submission source: %s", s.Source)
	}
	return nil
}

func (s Submission) Clone() Submission {
	out := s
	out.PlayerIDs = append([]string(nil), s.PlayerIDs...)
	if s.Effective != nil {
		eff := *s.Effective
		eff.RosterKeys = append([]string(nil), s.Effective.RosterKeys...)
		out.Effective = &eff
	}
	return out
}
