package db

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
)

// RunMigrations выполняет указанные SQL-скрипты в базе данных.
func RunMigrations(db *sqlx.DB, scriptPaths ...string) error {
	for _, scriptPath := range scriptPaths {
		content, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("db.RunMigrations: cannot read %s: %w", scriptPath, err)
		}

		statements := strings.Split(string(content), ";")
		for _, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}

			_, err := db.Exec(stmt)
			if err != nil {
				if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "duplicate key") {
					log.Printf("db.RunMigrations: skipping error in %s: %v", scriptPath, err)
					continue
				}
				return fmt.Errorf("db.RunMigrations: error executing statement in %s: %w", scriptPath, err)
			}
		}
		log.Printf("db.RunMigrations: executed %s", scriptPath)
	}
	return nil
}
