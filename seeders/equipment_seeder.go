package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/pkg/constants"
)

type demoEquipment struct {
	Name           string
	SerialNumber   string
	Location       string
	Department     string
	Status         string
	TeamName       string
	TechnicianMail string
}

var equipmentsData = []demoEquipment{
	{
		Name: "Токарный станок ТВ-320", SerialNumber: "TV-320-001",
		Location: "Цех №1", Department: "Механический",
		Status: constants.EquipmentStatusActive,
		TeamName: "Механическая бригада", TechnicianMail: "tech-mech@maintenance.local",
	},
	{
		Name: "Компрессор КС-7", SerialNumber: "KS-7-014",
		Location: "Цех №2", Department: "Энергетический",
		Status: constants.EquipmentStatusActive,
		TeamName: "Электрическая бригада", TechnicianMail: "tech-elec@maintenance.local",
	},
	{
		Name: "Сверлильный станок СН-12", SerialNumber: "SN-12-007",
		Location: "Цех №1", Department: "Механический",
		Status: constants.EquipmentStatusPending,
	},
}

func seedEquipments(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'equipments'...")

	for _, e := range equipmentsData {
		var exists bool
		if err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM equipments WHERE serial_number = $1)", e.SerialNumber).Scan(&exists); err != nil {
			return err
		}
		if exists {
			log.Printf("    - Оборудование %q уже существует. Пропускаем.", e.SerialNumber)
			continue
		}

		var teamID, technicianID *uint64
		if e.TeamName != "" {
			var id uint64
			if err := db.QueryRow(ctx, "SELECT id FROM teams WHERE name = $1", e.TeamName).Scan(&id); err != nil {
				return fmt.Errorf("не найдена бригада %q: %w", e.TeamName, err)
			}
			teamID = &id
		}
		if e.TechnicianMail != "" {
			var id uint64
			if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", e.TechnicianMail).Scan(&id); err != nil {
				return fmt.Errorf("не найден техник %q: %w", e.TechnicianMail, err)
			}
			technicianID = &id
		}

		_, err := db.Exec(ctx,
			`INSERT INTO equipments (name, serial_number, location, department, status, maintenance_team_id, technician_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.Name, e.SerialNumber, e.Location, e.Department, e.Status, teamID, technicianID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
