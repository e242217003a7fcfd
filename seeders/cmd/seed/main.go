package main

import (
	"flag"
	"log"

	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runDemo := flag.Bool("demo", false, "Наполнить БД демо-данными (бригады, пользователи, оборудование, заявки)")
	flag.Parse()

	if !*runDemo {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Пример: go run ./seeders/cmd/seed -demo")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	seeders.SeedDemoData(dbPool)
}
