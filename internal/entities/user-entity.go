// Файл: internal/entities/user-entity.go
package entities

import (
	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/types"
)

type User struct {
	ID    uint64 `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`

	Password string `json:"-" db:"password"`

	Role      string      `json:"role" db:"role"`
	TeamID    *uint64     `json:"team_id" db:"team_id"`
	AvatarURL null.String `json:"avatar_url,omitempty" db:"avatar_url"`

	// Подтянутая бригада (не колонка в таблице).
	Team *Team `json:"team,omitempty" db:"-"`

	types.BaseEntity
}
