package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

const equipmentTable = "equipments"
const equipmentFields = `e.id, e.name, e.serial_number, e.purchase_date, e.warranty_info,
	e.location, e.department, e.is_scrap, e.status,
	e.maintenance_team_id, e.technician_id, e.assigned_employee_id,
	e.created_at, e.updated_at`

// Поля, по которым разрешены фильтры и сортировки из query string.
var equipmentFilterColumns = map[string]string{
	"status":              "e.status",
	"is_scrap":            "e.is_scrap",
	"department":          "e.department",
	"maintenance_team_id": "e.maintenance_team_id",
	"created_at":          "e.created_at",
	"name":                "e.name",
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, id uint64, equipment *entities.Equipment) error
	DeleteEquipment(ctx context.Context, id uint64) error
	GetDefaults(ctx context.Context, id uint64) (*entities.EquipmentDefaults, error)
	SetScrapInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipmentRow(row pgx.Row, withRefs bool) (*entities.Equipment, error) {
	var eq entities.Equipment
	dest := []interface{}{
		&eq.ID, &eq.Name, &eq.SerialNumber, &eq.PurchaseDate, &eq.WarrantyInfo,
		&eq.Location, &eq.Department, &eq.IsScrap, &eq.Status,
		&eq.MaintenanceTeamID, &eq.TechnicianID, &eq.AssignedEmployeeID,
		&eq.CreatedAt, &eq.UpdatedAt,
	}

	var teamName, technicianName, employeeName *string
	if withRefs {
		dest = append(dest, &teamName, &technicianName, &employeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if withRefs {
		if eq.MaintenanceTeamID != nil && teamName != nil {
			eq.MaintenanceTeam = &entities.ShortRef{ID: *eq.MaintenanceTeamID, Name: *teamName}
		}
		if eq.TechnicianID != nil && technicianName != nil {
			eq.DefaultTechnician = &entities.ShortRef{ID: *eq.TechnicianID, Name: *technicianName}
		}
		if eq.AssignedEmployeeID != nil && employeeName != nil {
			eq.AssignedEmployee = &entities.ShortRef{ID: *eq.AssignedEmployeeID, Name: *employeeName}
		}
	}
	return &eq, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	builder := sq.Select(equipmentFields+", t.name, tech.name, emp.name").
		From(equipmentTable + " e").
		LeftJoin("teams t ON t.id = e.maintenance_team_id").
		LeftJoin("users tech ON tech.id = e.technician_id").
		LeftJoin("users emp ON emp.id = e.assigned_employee_id").
		PlaceholderFormat(sq.Dollar)

	builder = db.ApplyListParams(builder, filter, equipmentFilterColumns)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("e.created_at DESC")
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

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		eq, err := scanEquipmentRow(rows, true)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *eq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := db.ApplyFilterParams(
		sq.Select("COUNT(*)").From(equipmentTable+" e").PlaceholderFormat(sq.Dollar),
		filter, equipmentFilterColumns,
	)
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

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := `
		SELECT ` + equipmentFields + `, t.name, tech.name, emp.name
		FROM ` + equipmentTable + ` e
			LEFT JOIN teams t ON t.id = e.maintenance_team_id
			LEFT JOIN users tech ON tech.id = e.technician_id
			LEFT JOIN users emp ON emp.id = e.assigned_employee_id
		WHERE e.id = $1`

	eq, err := scanEquipmentRow(r.storage.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
		}
		return nil, err
	}
	return eq, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO `+equipmentTable+`
			(name, serial_number, purchase_date, warranty_info, location, department,
			 is_scrap, status, maintenance_team_id, technician_id, assigned_employee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		equipment.Name, equipment.SerialNumber, equipment.PurchaseDate, equipment.WarrantyInfo,
		equipment.Location, equipment.Department, equipment.IsScrap, equipment.Status,
		equipment.MaintenanceTeamID, equipment.TechnicianID, equipment.AssignedEmployeeID,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.NewValidationError("оборудование с серийным номером %q уже существует", equipment.SerialNumber)
		}
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id uint64, equipment *entities.Equipment) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE `+equipmentTable+`
		SET name = $1, serial_number = $2, purchase_date = $3, warranty_info = $4,
			location = $5, department = $6, is_scrap = $7, status = $8,
			maintenance_team_id = $9, technician_id = $10, assigned_employee_id = $11,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $12`,
		equipment.Name, equipment.SerialNumber, equipment.PurchaseDate, equipment.WarrantyInfo,
		equipment.Location, equipment.Department, equipment.IsScrap, equipment.Status,
		equipment.MaintenanceTeamID, equipment.TechnicianID, equipment.AssignedEmployeeID,
		id,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewValidationError("оборудование с серийным номером %q уже существует", equipment.SerialNumber)
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM `+equipmentTable+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	return nil
}

// GetDefaults возвращает маршрутизацию по умолчанию: бригаду и техника с именами.
func (r *EquipmentRepository) GetDefaults(ctx context.Context, id uint64) (*entities.EquipmentDefaults, error) {
	var defaults entities.EquipmentDefaults
	err := r.storage.QueryRow(ctx, `
		SELECT e.maintenance_team_id, e.technician_id, t.name, tech.name
		FROM `+equipmentTable+` e
			LEFT JOIN teams t ON t.id = e.maintenance_team_id
			LEFT JOIN users tech ON tech.id = e.technician_id
		WHERE e.id = $1`, id,
	).Scan(&defaults.TeamID, &defaults.TechnicianID, &defaults.TeamName, &defaults.TechnicianName)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
		}
		return nil, err
	}
	return &defaults, nil
}

// SetScrapInTx помечает оборудование списанным в рамках внешней транзакции —
// побочный эффект перевода заявки в Scrap.
func (r *EquipmentRepository) SetScrapInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, `
		UPDATE `+equipmentTable+`
		SET is_scrap = TRUE, status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`,
		constants.EquipmentStatusScrap, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("оборудование с id=%d не найдено", id)
	}
	return nil
}
