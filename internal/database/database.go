package database

import (
	"fmt"
	"time"

	"adaptive-iq/internal/config"
	"adaptive-iq/internal/logger"

	_ "github.com/godror/godror" // Oracle driver (cgo, OCI)
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"          // Postgres driver
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go)
	"go.uber.org/zap"
)

func init() {
	// go-ora and godror both take :name style binds; sqlx only knows that for "godror".
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// DriverName maps a configured driver to the registered database/sql driver name.
func DriverName(driver string) (string, error) {
	switch driver {
	case "", "oracle", "go-ora":
		return "oracle", nil
	case "godror":
		return "godror", nil
	case "postgres", "pq":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewSQLXDB opens and pings the configured database.
func NewSQLXDB(cfg *config.Config) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}

	// 연결 테스트
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Get().Info("Successfully connected to database",
		zap.String("driver", driverName),
		zap.String("host", cfg.DB.Host),
		zap.Int("port", cfg.DB.Port))
	return db, nil
}
