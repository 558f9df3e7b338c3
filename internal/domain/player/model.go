package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role is the cricket skill category used by roster rules and scoring.
type Role string

const (
	RoleBatter       Role = "BAT"
	RoleBowler       Role = "BOWL"
	RoleAllRounder   Role = "AR"
	RoleWicketKeeper Role = "WK"
)

var AllRoles = map[Role]struct{}{
	RoleBatter:       {},
	RoleBowler:       {},
	RoleAllRounder:   {},
	RoleWicketKeeper: {},
}

func NormalizeRole(value string) Role {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "BAT", "BATTER", "BATSMAN":
		return RoleBatter
	case "BOWL", "BOWLER":
		return RoleBowler
	case "AR", "ALL", "ALLROUNDER", "ALL-ROUNDER", "ALL ROUNDER":
		return RoleAllRounder
	case "WK", "KEEPER", "WICKETKEEPER", "WICKET-KEEPER", "WK-BATSMAN":
		return RoleWicketKeeper
	default:
		return Role(strings.ToUpper(strings.TrimSpace(value)))
	}
}

// Player is a selectable cricketer in the tournament pool.
type Player struct {
	ID          string
	Name        string
	Country     string
	Role        Role
	Credit      decimal.Decimal
	TotalPoints float64
	UpdatedAt   time.Time
}

// Key returns the canonical join key for the player's display name.
func (p Player) Key() string {
	return CanonicalName(p.Name)
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if strings.TrimSpace(p.Country) == "" {
		return fmt.Errorf("player country is required")
	}
	if _, ok := AllRoles[p.Role]; !ok {
		return fmt.Errorf("invalid player role: %s", p.Role)
	}
	if !p.Credit.IsPositive() {
		return fmt.Errorf("player credit must be greater than zero")
	}

	return nil
}
