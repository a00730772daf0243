package postgres

import (
	"embed"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

var lock = &sync.Mutex{}
var db *sqlx.DB

//go:embed migrations/*.sql
var embedMigrations embed.FS

func GetDBInstance(user, password, host, port, dbName string) (*sqlx.DB, error) {
	var err error

	if db == nil {
		lock.Lock()
		defer lock.Unlock()

		db, err = sqlx.Connect("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbName))
		if err != nil {
			return db, err
		}
	} else {
		log.Info().Str("component", "GetDBInstance").Msg("instance is already created")
	}

	return db, nil
}

// RunMigrations applies all pending schema migrations.
func RunMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
