package main

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"golang-market-etl/pkg/config"
	"golang-market-etl/pkg/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	migrationsRoot string
)

type migrateConfig struct {
	Database config.Database `mapstructure:"database"`
}

// getDSN builds the golang-migrate database URL for the configured driver.
func getDSN(db config.Database) (string, error) {
	switch strings.ToLower(db.Driver) {
	case "", database.DriverMySQL:
		dsn := database.MySQLDSN(database.Config{
			Host:     db.Host,
			Port:     db.Port,
			User:     db.User,
			Password: db.Password,
			DBName:   db.DBName,
		})
		return "mysql://" + dsn + "&multiStatements=true", nil
	case database.DriverPostgres:
		sslMode := db.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.User, db.Password),
			Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			Path:     "/" + db.DBName,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("migrations are not available for driver %q", db.Driver)
	}
}

func driverDir(driver string) string {
	if driver == "" {
		return database.DriverMySQL
	}
	return strings.ToLower(driver)
}

func runMigrations(direction string) {
	var cfg migrateConfig
	if err := config.Load(configPath, &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn, err := getDSN(cfg.Database)
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}
	migrationsPath := fmt.Sprintf("file://%s/%s", migrationsRoot, driverDir(cfg.Database.Driver))

	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	var migrationErr error
	switch direction {
	case "up":
		migrationErr = m.Up()
	case "down":
		migrationErr = m.Steps(-1)
	}

	if migrationErr != nil && migrationErr != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", migrationErr)
	}
	if direction == "up" {
		fmt.Println("Applied migrations successfully.")
	} else {
		fmt.Println("Reverted last migration successfully.")
	}

	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("Migration source error on close: %v\n", srcErr)
	}
	if dbErr != nil {
		log.Printf("Migration database error on close: %v\n", dbErr)
	}
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all available database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("up")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the last database migration",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("down")
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "migrate"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-etl.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&migrationsRoot, "path", "migrations", "Directory holding one migrations folder per driver")

	rootCmd.AddCommand(upCmd, downCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing migrate CLI: %s\n", err)
		os.Exit(1)
	}
}
