package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var teamsData = []string{
	"Механическая бригада",
	"Электрическая бригада",
}

func seedTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'teams'...")

	for _, name := range teamsData {
		var exists bool
		if err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM teams WHERE name = $1)", name).Scan(&exists); err != nil {
			return err
		}
		if exists {
			log.Printf("    - Бригада %q уже существует. Пропускаем.", name)
			continue
		}
		if _, err := db.Exec(ctx, "INSERT INTO teams (name) VALUES ($1)", name); err != nil {
			return err
		}
	}
	return nil
}
