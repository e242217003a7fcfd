package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	"github.com/pressly/goose/v3"

	"maintenance-system/migrations"
	"maintenance-system/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	command := flag.String("command", "up", "команда goose: up | down | status")
	flag.Parse()

	cfg := config.New()

	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("не удалось открыть соединение с БД: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("не удалось задать диалект goose: %v", err)
	}

	ctx := context.Background()
	if err := goose.RunContext(ctx, *command, db, "."); err != nil {
		log.Fatalf("goose %s: %v", *command, err)
	}

	log.Printf("✅ Миграции: команда %q выполнена", *command)
}
