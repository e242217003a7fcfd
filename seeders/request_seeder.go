package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/pkg/constants"
)

type demoRequest struct {
	Subject      string
	RequestType  string
	Priority     string
	SerialNumber string // оборудование, по которому заявка
	CreatorMail  string
}

var requestsData = []demoRequest{
	{
		Subject: "Вибрация шпинделя при работе", RequestType: constants.RequestTypeCorrective,
		Priority: constants.PriorityHigh, SerialNumber: "TV-320-001",
		CreatorMail: "worker@maintenance.local",
	},
	{
		Subject: "Плановая замена масла", RequestType: constants.RequestTypePreventive,
		Priority: constants.PriorityLow, SerialNumber: "KS-7-014",
		CreatorMail: "manager@maintenance.local",
	},
}

// seedRequests создаёт заявки с маршрутизацией, снятой с оборудования, —
// так же, как это делает боевой сценарий создания.
func seedRequests(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'maintenance_requests'...")

	for _, r := range requestsData {
		var exists bool
		if err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM maintenance_requests WHERE subject = $1)", r.Subject).Scan(&exists); err != nil {
			return err
		}
		if exists {
			log.Printf("    - Заявка %q уже существует. Пропускаем.", r.Subject)
			continue
		}

		var equipmentID uint64
		var teamID, technicianID *uint64
		err := db.QueryRow(ctx,
			"SELECT id, maintenance_team_id, technician_id FROM equipments WHERE serial_number = $1",
			r.SerialNumber,
		).Scan(&equipmentID, &teamID, &technicianID)
		if err != nil {
			return fmt.Errorf("не найдено оборудование %q: %w", r.SerialNumber, err)
		}

		var creatorID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", r.CreatorMail).Scan(&creatorID); err != nil {
			return fmt.Errorf("не найден пользователь %q: %w", r.CreatorMail, err)
		}

		_, err = db.Exec(ctx,
			`INSERT INTO maintenance_requests (subject, request_type, priority, status, equipment_id, team_id, technician_id, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			r.Subject, r.RequestType, r.Priority, constants.RequestStatusNew,
			equipmentID, teamID, technicianID, creatorID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
