package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"adaptive-iq/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/oracle/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

// Direction selects which half of the migration files to run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies the embedded schema for the given driver.
// Postgres goes through golang-migrate; Oracle runs the plain .sql files in order.
func RunMigrations(db *sql.DB, driver string, dir Direction) error {
	driverName, err := DriverName(driver)
	if err != nil {
		return err
	}
	if driverName == "postgres" {
		return runPostgresMigrations(db, dir)
	}
	return runOracleMigrations(db, dir)
}

func runPostgresMigrations(db *sql.DB, dir Direction) error {
	src, err := iofs.New(migrationFS, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}
	target, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", target)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if dir == Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", dir, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", verr)
	}
	logger.Get().Info("Migrations completed successfully",
		zap.String("direction", string(dir)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

func runOracleMigrations(db *sql.DB, dir Direction) error {
	files, err := MigrationFiles("oracle", dir)
	if err != nil {
		return err
	}

	for _, name := range files {
		content, err := migrationFS.ReadFile("migrations/oracle/" + name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		// Oracle executes one statement per call and rejects the trailing semicolon.
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		logger.Get().Info("Executed migration", zap.String("file", name))
	}

	logger.Get().Info("Migrations completed successfully", zap.String("direction", string(dir)))
	return nil
}

// MigrationFiles lists the embedded files for a dialect, ordered for the given direction.
func MigrationFiles(dialect string, dir Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + string(dir) + ".sql"
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}
	return names, nil
}

// SplitStatements breaks a migration file into single statements without the terminating semicolon.
func SplitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
