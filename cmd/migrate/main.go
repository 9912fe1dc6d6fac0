package main

import (
	"fmt"
	"log"
	"net/url"
	"os"

	ingestionconfig "golang-stock-newsdigest/internal/ingestion/config"
	pkgconfig "golang-stock-newsdigest/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var configPath string

func getDSN(dbConfig pkgconfig.Database) string {
	sslMode := dbConfig.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(dbConfig.User),
		url.QueryEscape(dbConfig.Password),
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.DBName,
		sslMode)
}

func runMigrations(direction string) {
	cfg, err := ingestionconfig.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dsn := getDSN(cfg.Database)
	migrationsPath := "file://migrations"

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

	switch {
	case migrationErr == migrate.ErrNoChange:
		fmt.Println("No migrations to apply.")
	case migrationErr != nil:
		log.Fatalf("Migration failed: %v", migrationErr)
	case direction == "up":
		fmt.Println("Applied migrations successfully.")
	default:
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

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := ingestionconfig.Load(configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		m, err := migrate.New("file://migrations", getDSN(cfg.Database))
		if err != nil {
			log.Fatalf("Failed to create migration instance: %v", err)
		}
		defer m.Close()

		version, dirty, err := m.Version()
		if err == migrate.ErrNilVersion {
			fmt.Println("No migrations applied.")
			return
		}
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		fmt.Printf("Version %d (dirty=%t)\n", version, dirty)
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "migrate"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-ingestion.yaml", "Path to the configuration file")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing migrate CLI: %s\n", err)
		os.Exit(1)
	}
}
