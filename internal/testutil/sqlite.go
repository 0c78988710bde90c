// Package testutil holds fixtures shared by repository and handler tests.
package testutil

import (
	"fmt"

	accesslogDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/accesslog"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	creditcardDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/creditcard"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns an in-memory database with every table migrated.
// The pool is pinned to one connection so all queries see the same memory database.
func OpenSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&userDatamodel.Role{},
		&userDatamodel.User{},
		&userDatamodel.PasswordReset{},
		&categoryDatamodel.Category{},
		&creditcardDatamodel.CreditCard{},
		&expenseDatamodel.Expense{},
		&budgetDatamodel.Budget{},
		&accesslogDatamodel.AccessLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err := db.Create([]userDatamodel.Role{{ID: 1, Name: "admin"}, {ID: 2, Name: "regular"}}).Error; err != nil {
		return nil, fmt.Errorf("seed roles: %w", err)
	}
	return db, nil
}

// SQLX wraps the gorm connection for the read-side repositories.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}
