package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Name      string      `json:"name" validate:"required,min=2,max=255"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=6"`
	Role      string      `json:"role" validate:"required,oneof=Admin Manager Worker Technician"`
	TeamID    *uint64     `json:"team_id,omitempty" validate:"omitempty,gt=0"`
	AvatarURL null.String `json:"avatar_url,omitempty" validate:"omitempty,url"`
}
