package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type playerTableModel struct {
	ID          int64           `db:"id"`
	PublicID    string          `db:"public_id"`
	Name        string          `db:"name"`
	Country     string          `db:"country"`
	Role        string          `db:"role"`
	Credit      decimal.Decimal `db:"credit"`
	TotalPoints float64         `db:"total_points"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type playerInsertModel struct {
	PublicID string          `db:"public_id"`
	Name     string          `db:"name"`
	Country  string          `db:"country"`
	Role     string          `db:"role"`
	Credit   decimal.Decimal `db:"credit"`
}
