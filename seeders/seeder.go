package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDemoData наполняет БД демонстрационными данными в правильном порядке:
// бригады -> пользователи -> оборудование -> заявки.
func SeedDemoData(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения демо-данными...")

	if err := seedTeams(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения бригад: %v", err)
	}
	if err := seedUsers(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения пользователей: %v", err)
	}
	if err := seedEquipments(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения оборудования: %v", err)
	}
	if err := seedRequests(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения заявок: %v", err)
	}

	log.Println("✅ Наполнение демо-данными завершено!")
}
