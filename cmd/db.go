package cmd

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const driverName = "pgx"

// Databases shares one pgx pool between the gorm repositories and the sqlx aggregate readers.
type Databases struct {
	SQL  *sql.DB
	SQLX *sqlx.DB
	Gorm *gorm.DB
}

func (d *Databases) Close() error {
	return d.SQL.Close()
}

// initDB opens and pings the postgres pool.
func initDB(cfg internal.DatabaseConfig, debug bool) (*Databases, error) {
	sqlDB, err := sql.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logLevel := gormLogger.Warn
	if debug {
		logLevel = gormLogger.Info
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &Databases{
		SQL:  sqlDB,
		SQLX: sqlx.NewDb(sqlDB, driverName),
		Gorm: gormDB,
	}, nil
}
