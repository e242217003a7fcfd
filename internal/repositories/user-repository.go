package repositories

import (
	"context"
	"errors"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userFields = "u.id, u.name, u.email, u.role, u.team_id, u.avatar_url, u.created_at, u.updated_at"

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context) ([]entities.User, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (uint64, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]entities.User, error) {
	query := `
		SELECT ` + userFields + `, t.id, t.name
		FROM users u
			LEFT JOIN teams t ON t.id = u.team_id
		ORDER BY u.name`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		var user entities.User
		var teamID *uint64
		var teamName *string
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Role, &user.TeamID, &user.AvatarURL,
			&user.CreatedAt, &user.UpdatedAt,
			&teamID, &teamName,
		); err != nil {
			return nil, err
		}
		if teamID != nil && teamName != nil {
			user.Team = &entities.Team{ID: *teamID, Name: *teamName}
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	var user entities.User
	err := r.storage.QueryRow(ctx,
		`SELECT `+userFields+` FROM users u WHERE u.id = $1`, id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.TeamID, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("пользователь с id=%d не найден", id)
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail возвращает пользователя вместе с хешем пароля — только для логина.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.storage.QueryRow(ctx,
		`SELECT `+userFields+`, u.password FROM users u WHERE u.email = $1`, email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.TeamID, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt, &user.Password)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("пользователь с email=%s не найден", email)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO users (name, email, password, role, team_id, avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		user.Name, user.Email, user.Password, user.Role, user.TeamID, user.AvatarURL,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.NewValidationError("пользователь с email %q уже существует", user.Email)
		}
		r.logger.Error("не удалось создать пользователя", zap.Error(err))
		return 0, err
	}
	return id, nil
}
