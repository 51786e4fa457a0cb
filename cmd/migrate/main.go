package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"memorybank/internal/database"
)

func main() {
	var (
		dbType         = flag.String("db", "sqlite", "Database type (postgres or sqlite)")
		sqlitePath     = flag.String("path", "./memorybank.db", "SQLite database path")
		host           = flag.String("host", "localhost", "Database host")
		port           = flag.Int("port", 5432, "Database port")
		user           = flag.String("user", "user", "Database user")
		password       = flag.String("password", "pass", "Database password")
		dbName         = flag.String("name", "memorybank", "Database name")
		migrationsPath = flag.String("migrations", "./migrations", "Path to migrations directory")
		status         = flag.Bool("status", false, "Show migration status only")
	)
	flag.Parse()

	config := database.Config{
		Type:       *dbType,
		Host:       *host,
		Port:       *port,
		User:       *user,
		Password:   *password,
		Name:       *dbName,
		SQLitePath: *sqlitePath,
	}

	// Environment variables override flags
	if env := os.Getenv("DB_TYPE"); env != "" {
		config.Type = env
	}
	if env := os.Getenv("DB_PATH"); env != "" {
		config.SQLitePath = env
	}
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Host = env
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Name = env
	}

	db, err := database.NewDB(config)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Conn(), config.Type)

	if *status {
		showStatus(migrator, *migrationsPath)
		return
	}

	if err := migrator.Run(*migrationsPath); err != nil {
		log.Fatal("Migration failed:", err)
	}
}

func showStatus(migrator *database.Migrator, migrationsPath string) {
	if err := migrator.Initialize(); err != nil {
		log.Fatal("Failed to initialize migrations table:", err)
	}

	applied, err := migrator.GetAppliedMigrations()
	if err != nil {
		log.Fatal("Failed to get applied migrations:", err)
	}

	migrations, err := migrator.LoadMigrations(migrationsPath)
	if err != nil {
		log.Fatal("Failed to load migrations:", err)
	}

	fmt.Println("Migration status:")
	for _, migration := range migrations {
		state := "pending"
		if applied[migration.Version] {
			state = "applied"
		}
		fmt.Printf("  %-30s %s\n", migration.Name, state)
	}
}
