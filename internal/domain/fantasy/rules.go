package fantasy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
)

var (
	ErrInvalidSquadSize       = errors.New("invalid squad size")
	ErrExceededBudget         = errors.New("budget cap exceeded")
	ErrExceededCountryLimit   = errors.New("max players from same country exceeded")
	ErrRoleBand               = errors.New("role count outside allowed band")
	ErrUnknownPlayerRole      = errors.New("unknown player role")
	ErrDuplicatePlayerInSquad = errors.New("duplicate player in squad")
)

// RoleBand bounds how many players of one role a roster may hold.
type RoleBand struct {
	Min int
	Max int
}

// Rules stores fantasy roster validation parameters.
type Rules struct {
	SquadSize     int
	BudgetCap     decimal.Decimal
	MaxPerCountry int
	RoleBands     map[player.Role]RoleBand
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:     11,
		BudgetCap:     decimal.NewFromInt(100),
		MaxPerCountry: 7,
		RoleBands: map[player.Role]RoleBand{
			player.RoleWicketKeeper: {Min: 1, Max: 4},
			player.RoleBatter:       {Min: 3, Max: 6},
			player.RoleAllRounder:   {Min: 1, Max: 4},
			player.RoleBowler:       {Min: 3, Max: 6},
		},
	}
}

// ValidateRoster checks size, uniqueness, per-country cap, budget and role bands in that order.
func ValidateRoster(players []player.Player, rules Rules) error {
	if len(players) != rules.SquadSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidSquadSize, rules.SquadSize, len(players))
	}

	countryCounter := make(map[string]int)
	roleCounter := make(map[player.Role]int)
	playerSet := make(map[string]struct{})

	for _, p := range players {
		if p.ID == "" {
			return fmt.Errorf("player id is required")
		}
		if _, exists := playerSet[p.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayerInSquad, p.ID)
		}
		playerSet[p.ID] = struct{}{}

		if _, ok := player.AllRoles[p.Role]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayerRole, p.Role)
		}
		if strings.TrimSpace(p.Country) == "" {
			return fmt.Errorf("country is required for player %s", p.ID)
		}

		country := strings.ToLower(strings.TrimSpace(p.Country))
		countryCounter[country]++
		if rules.MaxPerCountry > 0 && countryCounter[country] > rules.MaxPerCountry {
			return fmt.Errorf("%w: country=%s max=%d", ErrExceededCountryLimit, p.Country, rules.MaxPerCountry)
		}

		roleCounter[p.Role]++
	}

	if totalCost := RosterCost(players); totalCost.GreaterThan(rules.BudgetCap) {
		return fmt.Errorf("%w: cap=%s used=%s", ErrExceededBudget, rules.BudgetCap.String(), totalCost.String())
	}

	for _, role := range []player.Role{player.RoleWicketKeeper, player.RoleBatter, player.RoleAllRounder, player.RoleBowler} {
		band, ok := rules.RoleBands[role]
		if !ok {
			continue
		}
		if count := roleCounter[role]; count < band.Min || (band.Max > 0 && count > band.Max) {
			return fmt.Errorf("%w: role=%s min=%d max=%d current=%d", ErrRoleBand, role, band.Min, band.Max, count)
		}
	}

	return nil
}

// RosterCost sums credits.
func RosterCost(players []player.Player) decimal.Decimal {
	total := decimal.Zero
	for _, p := range players {
		total = total.Add(p.Credit)
	}
	return total
}
