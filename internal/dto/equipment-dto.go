package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name         string      `json:"name" validate:"required,min=2,max=255"`
	SerialNumber string      `json:"serial_number" validate:"required,min=1,max=100"`
	PurchaseDate null.Time   `json:"purchase_date,omitempty"`
	WarrantyInfo null.String `json:"warranty_info,omitempty"`
	Location     null.String `json:"location,omitempty"`
	Department   null.String `json:"department,omitempty"`

	// Статус может задать только Admin/Manager; для Worker игнорируется —
	// его оборудование всегда попадает на одобрение.
	Status null.String `json:"status,omitempty" validate:"omitempty,oneof=Active 'Pending Approval' Scrap"`

	MaintenanceTeamID  *uint64 `json:"maintenance_team_id,omitempty" validate:"omitempty,gt=0"`
	TechnicianID       *uint64 `json:"technician_id,omitempty" validate:"omitempty,gt=0"`
	AssignedEmployeeID *uint64 `json:"assigned_employee_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateEquipmentDTO — частичный патч: применяются только переданные поля.
type UpdateEquipmentDTO struct {
	Name         null.String `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	SerialNumber null.String `json:"serial_number,omitempty" validate:"omitempty,min=1,max=100"`
	PurchaseDate null.Time   `json:"purchase_date,omitempty"`
	WarrantyInfo null.String `json:"warranty_info,omitempty"`
	Location     null.String `json:"location,omitempty"`
	Department   null.String `json:"department,omitempty"`
	Status       null.String `json:"status,omitempty" validate:"omitempty,oneof=Active 'Pending Approval' Scrap"`

	MaintenanceTeamID  *uint64 `json:"maintenance_team_id,omitempty" validate:"omitempty,gt=0"`
	TechnicianID       *uint64 `json:"technician_id,omitempty" validate:"omitempty,gt=0"`
	AssignedEmployeeID *uint64 `json:"assigned_employee_id,omitempty" validate:"omitempty,gt=0"`
}

type OpenRequestCountDTO struct {
	Count uint64 `json:"count"`
}
