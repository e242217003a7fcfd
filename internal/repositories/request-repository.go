package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const requestsTable = "maintenance_requests"
const requestFields = `r.id, r.subject, r.request_type, r.scheduled_date, r.duration,
	r.priority, r.status, r.notes, r.equipment_id, r.team_id, r.technician_id,
	r.created_by, r.created_at, r.updated_at`

var requestFilterColumns = map[string]string{
	"team_id":       "r.team_id",
	"status":        "r.status",
	"priority":      "r.priority",
	"request_type":  "r.request_type",
	"equipment_id":  "r.equipment_id",
	"technician_id": "r.technician_id",
	"created_at":    "r.created_at",
}

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, scope authz.RequestScope, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, request *entities.MaintenanceRequest) (uint64, error)
	AcceptRequest(ctx context.Context, id uint64, technicianID uint64) (bool, error)
	UpdateRequest(ctx context.Context, id uint64, request *entities.MaintenanceRequest) error
	UpdateRequestInTx(ctx context.Context, tx pgx.Tx, id uint64, request *entities.MaintenanceRequest) error
	DeleteRequest(ctx context.Context, id uint64) error
	CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

// scopeCondition переводит срез видимости роли в условие WHERE.
func scopeCondition(scope authz.RequestScope) sq.Sqlizer {
	if scope.All {
		return nil
	}
	if scope.CreatedBy != nil {
		return sq.Eq{"r.created_by": *scope.CreatedBy}
	}
	if scope.TechnicianID != nil {
		cond := sq.Or{sq.Eq{"r.technician_id": *scope.TechnicianID}}
		if scope.UnassignedTeamID != nil {
			cond = append(cond, sq.And{
				sq.Eq{"r.technician_id": nil},
				sq.Eq{"r.team_id": *scope.UnassignedTeamID},
			})
		}
		return cond
	}
	// Пустой срез — ничего не отдаём.
	return sq.Expr("FALSE")
}

func scanRequestRow(row pgx.Row, withRefs bool) (*entities.MaintenanceRequest, error) {
	var req entities.MaintenanceRequest
	dest := []interface{}{
		&req.ID, &req.Subject, &req.RequestType, &req.ScheduledDate, &req.Duration,
		&req.Priority, &req.Status, &req.Notes, &req.EquipmentID, &req.TeamID,
		&req.TechnicianID, &req.CreatedBy, &req.CreatedAt, &req.UpdatedAt,
	}

	var equipmentName, teamName, technicianName *string
	if withRefs {
		dest = append(dest, &equipmentName, &teamName, &technicianName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if withRefs {
		if equipmentName != nil {
			req.Equipment = &entities.ShortRef{ID: req.EquipmentID, Name: *equipmentName}
		}
		if req.TeamID != nil && teamName != nil {
			req.Team = &entities.ShortRef{ID: *req.TeamID, Name: *teamName}
		}
		if req.TechnicianID != nil && technicianName != nil {
			req.Technician = &entities.ShortRef{ID: *req.TechnicianID, Name: *technicianName}
		}
	}
	return &req, nil
}

func (r *RequestRepository) GetRequests(ctx context.Context, scope authz.RequestScope, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	builder := sq.Select(requestFields+", e.name, t.name, tech.name").
		From(requestsTable + " r").
		LeftJoin("equipments e ON e.id = r.equipment_id").
		LeftJoin("teams t ON t.id = r.team_id").
		LeftJoin("users tech ON tech.id = r.technician_id").
		PlaceholderFormat(sq.Dollar)

	if cond := scopeCondition(scope); cond != nil {
		builder = builder.Where(cond)
	}

	builder = db.ApplyListParams(builder, filter, requestFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("r.created_at DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.MaintenanceRequest, 0)
	for rows.Next() {
		req, err := scanRequestRow(rows, true)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := sq.Select("COUNT(*)").From(requestsTable + " r").PlaceholderFormat(sq.Dollar)
	if cond := scopeCondition(scope); cond != nil {
		countBuilder = countBuilder.Where(cond)
	}
	countBuilder = db.ApplyFilterParams(countBuilder, filter, requestFilterColumns)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	query := `
		SELECT ` + requestFields + `, e.name, t.name, tech.name
		FROM ` + requestsTable + ` r
			LEFT JOIN equipments e ON e.id = r.equipment_id
			LEFT JOIN teams t ON t.id = r.team_id
			LEFT JOIN users tech ON tech.id = r.technician_id
		WHERE r.id = $1`

	req, err := scanRequestRow(r.storage.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("заявка с id=%d не найдена", id)
		}
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request *entities.MaintenanceRequest) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO `+requestsTable+`
			(subject, request_type, scheduled_date, duration, priority, status, notes,
			 equipment_id, team_id, technician_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		request.Subject, request.RequestType, request.ScheduledDate, request.Duration,
		request.Priority, request.Status, request.Notes,
		request.EquipmentID, request.TeamID, request.TechnicianID, request.CreatedBy,
	).Scan(&id)

	if err != nil {
		r.logger.Error("не удалось создать заявку", zap.Error(err))
		return 0, err
	}
	return id, nil
}

// AcceptRequest — условный переход New -> In Progress одним UPDATE-ом.
// Возвращает false, если заявка уже не в статусе New: второй техник,
// пришедший одновременно, перехода не получит.
func (r *RequestRepository) AcceptRequest(ctx context.Context, id uint64, technicianID uint64) (bool, error) {
	result, err := r.storage.Exec(ctx, `
		UPDATE `+requestsTable+`
		SET status = $1, technician_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND status = $4`,
		constants.RequestStatusInProgress, technicianID, id, constants.RequestStatusNew,
	)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RequestRepository) UpdateRequest(ctx context.Context, id uint64, request *entities.MaintenanceRequest) error {
	return r.updateRequest(ctx, r.storage, id, request)
}

func (r *RequestRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, id uint64, request *entities.MaintenanceRequest) error {
	return r.updateRequest(ctx, tx, id, request)
}

func (r *RequestRepository) updateRequest(ctx context.Context, q querier, id uint64, request *entities.MaintenanceRequest) error {
	result, err := q.Exec(ctx, `
		UPDATE `+requestsTable+`
		SET subject = $1, scheduled_date = $2, duration = $3, status = $4, notes = $5,
			technician_id = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7`,
		request.Subject, request.ScheduledDate, request.Duration, request.Status,
		request.Notes, request.TechnicianID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("заявка с id=%d не найдена", id)
	}
	return nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM `+requestsTable+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("заявка с id=%d не найдена", id)
	}
	return nil
}

// CountOpenByEquipment — сколько открытых (New / In Progress) заявок висит на оборудовании.
func (r *RequestRepository) CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `
		SELECT COUNT(*) FROM `+requestsTable+`
		WHERE equipment_id = $1 AND status = ANY($2)`,
		equipmentID, constants.OpenRequestStatuses,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
