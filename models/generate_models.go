package models

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Schema tooling

Migrate creates or alters the accounts, contacts and projects tables to match
the structs in this package. It runs on startup when AUTO_MIGRATE=true.

GenerateModels migrates, prints a column drift report and writes typed query
helpers to ./generated. It runs when GENERATE_MODELS=true and the process
exits afterwards.

Example report output:
=== COLUMN MISMATCH REPORT ===
--- Table: contacts ---
Found 1 columns not accounted for in model:
  - legacy_notes

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All returns every persisted model, in migration order
func All() []any {
	return []any{&Account{}, &Contact{}, &Project{}}
}

// Migrate brings the schema in line with the models
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		zlog.Warn().Err(err).Msg("could not ensure pgcrypto extension, relying on gen_random_uuid being built in")
	}

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	zlog.Info().Int("models", len(All())).Msg("database migration completed")
	return nil
}

// GenerateModels migrates the schema, reports column drift and writes the
// generated query package
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{Logger: verbose})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Account{}, Contact{}, Project{})

	if err := Migrate(db); err != nil {
		return err
	}

	report, err := ColumnMismatchReport(db)
	if err != nil {
		return err
	}
	PrintColumnMismatchReport(report)

	g.Execute()
	zlog.Info().Msg("model generation complete")
	return nil
}

// ColumnMismatchReport maps each table to the database columns that have no
// matching model field. Tables that do not exist yet are skipped.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	for _, model := range All() {
		s, err := schema.Parse(model, &sync.Map{}, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema for %T: %w", model, err)
		}

		dbColumns, err := getTableColumns(db, s.Table)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				continue
			}
			return nil, err
		}
		report[s.Table] = findColumnMismatches(dbColumns, s.DBNames)
	}
	return report, nil
}

// PrintColumnMismatchReport writes the report to stdout
func PrintColumnMismatchReport(report map[string][]string) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		mismatches := report[table]
		fmt.Printf("\n--- Table: %s ---\n", table)
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	if len(columns) == 0 {
		var tableExists bool
		tableQuery := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = CURRENT_SCHEMA()
				AND table_name = ?
			)
		`
		if err := db.Raw(tableQuery, tableName).Scan(&tableExists).Error; err != nil {
			return nil, fmt.Errorf("error checking if table %s exists: %w", tableName, err)
		}
		if !tableExists {
			return nil, fmt.Errorf("table %s does not exist", tableName)
		}
	}

	return columns, nil
}

// findColumnMismatches returns the database columns missing from the model, in database order
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	mismatches := []string{}
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
