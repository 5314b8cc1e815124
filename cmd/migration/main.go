package main

import (
	"database/sql"
	"embed"
	"os"
	"strconv"

	"maidhub/cmd/migration/seed"
	"maidhub/config"
	"maidhub/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

const MIGRATION_DB = "postgres"

//go:embed migrations/*.sql
var migrationFiles embed.FS

var migrationSource = &migrate.EmbedFileSystemMigrationSource{
	FileSystem: migrationFiles,
	Root:       "migrations",
}

func main() {
	log := logger.New("migrations")
	log = log.Function("main")

	config, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}

	migrationType := "up"
	if len(os.Args) > 1 {
		migrationType = os.Args[1]
	}

	switch migrationType {
	case "up":
		err = migrateUp(db.SQL, config, log)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				log.Er("failed to parse step", err)
				os.Exit(1)
			}
		}
		err = migrateDown(steps, config, log)
	case "status":
		err = migrationStatus(config, log)
	case "seed":
		if config.Environment == "production" {
			err = log.Error("refusing to seed a production database")
			break
		}
		err = migrateSeed(db, config, log)
	default:
		err = log.Error("unknown migration command", "command", migrationType)
	}

	if err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	log.Info("Migrations complete")
}

// migrateUp creates the GORM tables first so the SQL migrations can add
// partial indexes and check constraints on top of them.
func migrateUp(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateUp")
	log.Info("Running migrations up")

	if err := autoMigrate(db, log); err != nil {
		return log.Err("failed to auto migrate", err)
	}

	if err := runMigrations(config, log, migrate.Up, 0); err != nil {
		return log.Err("failed to run migrations", err)
	}

	return nil
}

func migrateDown(steps int, config config.Config, log logger.Logger) error {
	log = log.Function("migrateDown")
	log.Info("Running migrations down", "steps", steps)

	if err := runMigrations(config, log, migrate.Down, steps); err != nil {
		return log.Err("failed to run migrations", err)
	}

	return nil
}

func migrateSeed(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateSeed")
	log.Info("Running seed")

	if err := cleanDatabase(db.SQL, config, log); err != nil {
		return log.Err("failed to clean database", err)
	}

	if err := db.FlushAllCaches(); err != nil {
		return log.Err("failed to flush cache databases", err)
	}

	if err := migrateUp(db.SQL, config, log); err != nil {
		return log.Err("failed to migrate", err)
	}

	log.Info("Seeding database")
	if err := seed.Seed(db.SQL, config, log); err != nil {
		return log.Err("failed to seed database", err)
	}

	return nil
}

func autoMigrate(db *gorm.DB, log logger.Logger) error {
	log = log.Function("autoMigrate")

	// Phase 1 creates bare tables so foreign keys never point at a missing table.
	db.Config.DisableForeignKeyConstraintWhenMigrating = true
	for _, table := range database.ModelsToMigrate {
		if !db.Migrator().HasTable(table) {
			log.Info("Creating table structure", "table", table)
			if err := db.Migrator().CreateTable(table); err != nil {
				return log.Err("failed to create table structure", err)
			}
		}
	}

	db.Config.DisableForeignKeyConstraintWhenMigrating = false
	log.Info("Adding foreign key constraints and relationships")
	if err := db.AutoMigrate(database.ModelsToMigrate...); err != nil {
		return log.Err("failed to add constraints", err)
	}

	return nil
}

func runMigrations(
	config config.Config,
	log logger.Logger,
	direction migrate.MigrationDirection,
	max int,
) error {
	log = log.Function("runMigrations")

	db, closeDB, err := openMigrationDB(config, log)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := migrate.ExecMax(db, MIGRATION_DB, migrationSource, direction, max)
	if err != nil {
		return log.Err("failed to run migrations", err)
	}

	if n == 0 {
		log.Info("No migrations to apply")
	} else {
		log.Info("Applied migrations", "migrationCount", n)
	}

	return nil
}

func cleanDatabase(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("cleanDatabase")
	log.Info("Cleaning database before seeding")

	if err := runMigrations(config, log, migrate.Down, 0); err != nil {
		return log.Err("failed to roll back sql migrations", err)
	}

	if err := db.Migrator().DropTable(database.ModelsToMigrate...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	log.Info("Database cleaned successfully")
	return nil
}

// migrationStatus lists every embedded SQL migration with when it was applied.
func migrationStatus(config config.Config, log logger.Logger) error {
	log = log.Function("migrationStatus")

	db, closeDB, err := openMigrationDB(config, log)
	if err != nil {
		return err
	}
	defer closeDB()

	known, err := migrationSource.FindMigrations()
	if err != nil {
		return log.Err("failed to read embedded migrations", err)
	}

	records, err := migrate.GetMigrationRecords(db, MIGRATION_DB)
	if err != nil {
		return log.Err("failed to read migration records", err)
	}

	applied := make(map[string]*migrate.MigrationRecord, len(records))
	for _, record := range records {
		applied[record.Id] = record
	}

	for _, migration := range known {
		if record, ok := applied[migration.Id]; ok {
			log.Info("Migration applied", "id", migration.Id, "appliedAt", record.AppliedAt)
		} else {
			log.Info("Migration pending", "id", migration.Id)
		}
	}

	return nil
}

func openMigrationDB(config config.Config, log logger.Logger) (*sql.DB, func(), error) {
	db, err := sql.Open(MIGRATION_DB, database.DSN(config))
	if err != nil {
		return nil, nil, log.Err("failed to open database for migrations", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}
	return db, closeDB, nil
}
