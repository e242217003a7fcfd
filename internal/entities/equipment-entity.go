package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

type Equipment struct {
	ID           uint64      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	SerialNumber string      `json:"serial_number" db:"serial_number"`
	PurchaseDate null.Time   `json:"purchase_date" db:"purchase_date"`
	WarrantyInfo null.String `json:"warranty_info" db:"warranty_info"`
	Location     null.String `json:"location" db:"location"`
	Department   null.String `json:"department" db:"department"`
	IsScrap      bool        `json:"is_scrap" db:"is_scrap"`
	Status       string      `json:"status" db:"status"`

	// Маршрутизация по умолчанию: копируется на новые заявки при создании.
	MaintenanceTeamID  *uint64 `json:"maintenance_team_id" db:"maintenance_team_id"`
	TechnicianID       *uint64 `json:"technician_id" db:"technician_id"`
	AssignedEmployeeID *uint64 `json:"assigned_employee_id" db:"assigned_employee_id"`

	types.BaseEntity

	// Поля для связанных данных (не колонки в таблице).
	MaintenanceTeam   *ShortRef `json:"maintenance_team,omitempty" db:"-"`
	DefaultTechnician *ShortRef `json:"default_technician,omitempty" db:"-"`
	AssignedEmployee  *ShortRef `json:"assigned_employee,omitempty" db:"-"`
}

// ShortRef — краткая ссылка "id + имя" для подтянутых связей.
type ShortRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// EquipmentDefaults — маршрутизация новой заявки, снятая с оборудования.
type EquipmentDefaults struct {
	TeamID         *uint64 `json:"team_id"`
	TechnicianID   *uint64 `json:"technician_id"`
	TeamName       *string `json:"team_name"`
	TechnicianName *string `json:"technician_name"`
}
