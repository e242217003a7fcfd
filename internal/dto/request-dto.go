package dto

import "github.com/aarondl/null/v8"

type CreateRequestDTO struct {
	EquipmentID uint64      `json:"equipment_id" validate:"required,gt=0"`
	Subject     string      `json:"subject" validate:"required,min=3,max=255"`
	RequestType string      `json:"request_type" validate:"required,oneof=Corrective Preventive"`
	Priority    string      `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	Notes       null.String `json:"notes,omitempty"`

	// Для планового обслуживания дата обязательна.
	ScheduledDate null.Time `json:"scheduled_date,omitempty" validate:"required_if=RequestType Preventive"`
}

type AcceptRequestDTO struct {
	// Необязательный явный исполнитель; по умолчанию — сам вызывающий техник.
	TechnicianID *uint64 `json:"technician_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateRequestStageDTO — частичный патч стадии заявки.
// Какие поля реально применятся, решает маска ролей в authz.
type UpdateRequestStageDTO struct {
	Subject       null.String  `json:"subject,omitempty" validate:"omitempty,min=3,max=255"`
	Status        null.String  `json:"status,omitempty" validate:"omitempty,oneof=New 'In Progress' Repaired Scrap"`
	Duration      null.Float64 `json:"duration,omitempty" validate:"omitempty,gt=0"`
	ScheduledDate null.Time    `json:"scheduled_date,omitempty"`
	Notes         null.String  `json:"notes,omitempty"`
}
