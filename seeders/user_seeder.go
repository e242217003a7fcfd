package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/pkg/constants"
	"maintenance-system/pkg/utils"
)

type demoUser struct {
	Name     string
	Email    string
	Password string
	Role     string
	TeamName string // пусто = без бригады
}

var usersData = []demoUser{
	{Name: "Администратор", Email: "admin@maintenance.local", Password: "admin123", Role: constants.RoleAdmin},
	{Name: "Менеджер Цеха", Email: "manager@maintenance.local", Password: "manager123", Role: constants.RoleManager},
	{Name: "Работник Линии", Email: "worker@maintenance.local", Password: "worker123", Role: constants.RoleWorker, TeamName: "Механическая бригада"},
	{Name: "Техник Механик", Email: "tech-mech@maintenance.local", Password: "tech123", Role: constants.RoleTechnician, TeamName: "Механическая бригада"},
	{Name: "Техник Электрик", Email: "tech-elec@maintenance.local", Password: "tech123", Role: constants.RoleTechnician, TeamName: "Электрическая бригада"},
}

func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'users'...")

	for _, u := range usersData {
		var exists bool
		if err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", u.Email).Scan(&exists); err != nil {
			return err
		}
		if exists {
			log.Printf("    - Пользователь %q уже существует. Пропускаем.", u.Email)
			continue
		}

		var teamID *uint64
		if u.TeamName != "" {
			var id uint64
			if err := db.QueryRow(ctx, "SELECT id FROM teams WHERE name = $1", u.TeamName).Scan(&id); err != nil {
				return fmt.Errorf("не найдена бригада %q: %w", u.TeamName, err)
			}
			teamID = &id
		}

		hashedPassword, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}

		_, err = db.Exec(ctx,
			`INSERT INTO users (name, email, password, role, team_id) VALUES ($1, $2, $3, $4, $5)`,
			u.Name, u.Email, hashedPassword, u.Role, teamID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
