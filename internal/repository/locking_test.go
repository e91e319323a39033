package repository

import (
	"strings"
	"testing"

	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// A dry-run session against the postgres dialect renders SQL without a
// live server, so the generated locking clause can be asserted directly.
func TestLockForUpdateEmitsLockingClause(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=test dbname=test",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open dry-run session: %v", err)
	}

	var stock model.StoreStock
	stmt := lockForUpdate(db).
		Where("store_id = ? AND product_id = ?", uuid.New(), uuid.New()).
		First(&stock)

	sql := stmt.Statement.SQL.String()
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("generated SQL carries no row lock: %s", sql)
	}
}

func TestLockForUpdateSqlitePassthrough(t *testing.T) {
	db := setupTestDB(t)
	session := db.Session(&gorm.Session{DryRun: true})

	var stock model.StoreStock
	stmt := lockForUpdate(session).
		Where("store_id = ? AND product_id = ?", uuid.New(), uuid.New()).
		First(&stock)

	sql := stmt.Statement.SQL.String()
	if strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("sqlite must not receive a locking clause: %s", sql)
	}
}
