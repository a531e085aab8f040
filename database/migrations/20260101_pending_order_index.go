package migrations

import (
	"github.com/shashiranjanraj/shirtshop/pkg/migration"
	"gorm.io/gorm"
)

const pendingOrderIndex = "ux_orders_pending_user"

func init() {
	migration.Register("20260101000006_unique_pending_order_per_user", &UniquePendingOrder{})
}

// UniquePendingOrder lets the database reject a second pending order for the
// same user. Concurrent cart creation relies on it.
type UniquePendingOrder struct{}

func (m *UniquePendingOrder) Up(db *gorm.DB) error {
	return db.Exec(pendingIndexSQL(db.Dialector.Name())).Error
}

func (m *UniquePendingOrder) Down(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" || db.Dialector.Name() == "sqlserver" {
		return db.Exec("DROP INDEX " + pendingOrderIndex + " ON orders").Error
	}
	return db.Exec("DROP INDEX " + pendingOrderIndex).Error
}

func pendingIndexSQL(dialect string) string {
	switch dialect {
	case "mysql":
		// No partial indexes; NULLs never collide in a unique index.
		return "CREATE UNIQUE INDEX " + pendingOrderIndex +
			" ON orders ((CASE WHEN status = 'pending' THEN user_id END))"
	default:
		return "CREATE UNIQUE INDEX " + pendingOrderIndex +
			" ON orders (user_id) WHERE status = 'pending'"
	}
}
