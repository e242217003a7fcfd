package dto

import "maintenance-system/internal/entities"

type SignupDTO struct {
	Name     string  `json:"name" validate:"required,min=2,max=255"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,oneof=Admin Manager Worker Technician"`
	TeamID   *uint64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponseDTO struct {
	User   *entities.User `json:"user"`
	Tokens TokenPairDTO   `json:"tokens"`
}
