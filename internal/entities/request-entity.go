package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

type MaintenanceRequest struct {
	ID            uint64       `json:"id" db:"id"`
	Subject       string       `json:"subject" db:"subject"`
	RequestType   string       `json:"request_type" db:"request_type"`
	ScheduledDate null.Time    `json:"scheduled_date" db:"scheduled_date"`
	Duration      null.Float64 `json:"duration" db:"duration"`
	Priority      string       `json:"priority" db:"priority"`
	Status        string       `json:"status" db:"status"`
	Notes         null.String  `json:"notes" db:"notes"`

	EquipmentID  uint64  `json:"equipment_id" db:"equipment_id"`
	TeamID       *uint64 `json:"team_id" db:"team_id"`
	TechnicianID *uint64 `json:"technician_id" db:"technician_id"`
	CreatedBy    uint64  `json:"created_by" db:"created_by"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице).
	Equipment  *ShortRef `json:"equipment,omitempty" db:"-"`
	Team       *ShortRef `json:"team,omitempty" db:"-"`
	Technician *ShortRef `json:"technician,omitempty" db:"-"`
}
