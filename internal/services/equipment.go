package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint64) error
	GetDefaults(ctx context.Context, id uint64) (*entities.EquipmentDefaults, error)
	CountOpenRequests(ctx context.Context, id uint64) (uint64, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	defaultsTTL   time.Duration
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	defaultsTTL time.Duration,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		cacheRepo:     cacheRepo,
		defaultsTTL:   defaultsTTL,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepo.GetEquipments(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.EquipmentCreate) {
		return nil, apperrors.NewAuthorizationError("роль %q не может создавать оборудование", actor.Role)
	}

	// Admin/Manager задают статус сами (по умолчанию Active); оборудование,
	// заведённое работником, всегда уходит на одобрение.
	status := constants.EquipmentStatusPending
	if authz.CanSetEquipmentStatus(actor.Role) {
		status = constants.EquipmentStatusActive
		if payload.Status.Valid {
			status = payload.Status.String
		}
	}

	equipment := &entities.Equipment{
		Name:               payload.Name,
		SerialNumber:       payload.SerialNumber,
		PurchaseDate:       payload.PurchaseDate,
		WarrantyInfo:       payload.WarrantyInfo,
		Location:           payload.Location,
		Department:         payload.Department,
		Status:             status,
		IsScrap:            status == constants.EquipmentStatusScrap,
		MaintenanceTeamID:  payload.MaintenanceTeamID,
		TechnicianID:       payload.TechnicianID,
		AssignedEmployeeID: payload.AssignedEmployeeID,
	}

	id, err := s.equipmentRepo.CreateEquipment(ctx, equipment)
	if err != nil {
		return nil, err
	}

	s.logger.Info("создано оборудование",
		zap.Uint64("equipmentID", id), zap.String("status", status), zap.Uint64("actorID", actor.ID))

	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.EquipmentUpdate) {
		return nil, apperrors.NewAuthorizationError("роль %q не может изменять оборудование", actor.Role)
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name.Valid {
		equipment.Name = payload.Name.String
	}
	if payload.SerialNumber.Valid {
		equipment.SerialNumber = payload.SerialNumber.String
	}
	if payload.PurchaseDate.Valid {
		equipment.PurchaseDate = payload.PurchaseDate
	}
	if payload.WarrantyInfo.Valid {
		equipment.WarrantyInfo = payload.WarrantyInfo
	}
	if payload.Location.Valid {
		equipment.Location = payload.Location
	}
	if payload.Department.Valid {
		equipment.Department = payload.Department
	}
	if payload.MaintenanceTeamID != nil {
		equipment.MaintenanceTeamID = payload.MaintenanceTeamID
	}
	if payload.TechnicianID != nil {
		equipment.TechnicianID = payload.TechnicianID
	}
	if payload.AssignedEmployeeID != nil {
		equipment.AssignedEmployeeID = payload.AssignedEmployeeID
	}

	// Статус — привилегированное поле: у остальных ролей оно молча
	// выбрасывается из патча, остальные изменения применяются.
	if payload.Status.Valid && authz.CanSetEquipmentStatus(actor.Role) {
		equipment.Status = payload.Status.String
		equipment.IsScrap = equipment.Status == constants.EquipmentStatusScrap
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, id, equipment); err != nil {
		return nil, err
	}

	s.invalidateDefaults(ctx, id)

	return s.equipmentRepo.FindEquipment(ctx, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.EquipmentDelete) {
		return apperrors.NewAuthorizationError("роль %q не может удалять оборудование", actor.Role)
	}

	openCount, err := s.requestRepo.CountOpenByEquipment(ctx, id)
	if err != nil {
		return err
	}
	if openCount > 0 {
		return apperrors.NewConflictError("нельзя удалить оборудование: по нему открыто заявок — %d", openCount)
	}

	if err := s.equipmentRepo.DeleteEquipment(ctx, id); err != nil {
		return err
	}

	s.invalidateDefaults(ctx, id)
	s.logger.Info("оборудование удалено", zap.Uint64("equipmentID", id), zap.Uint64("actorID", actor.ID))
	return nil
}

// GetDefaults возвращает маршрутизацию по умолчанию, кэшируя её в Redis:
// форма создания заявки дёргает этот метод при каждом выборе оборудования.
func (s *EquipmentService) GetDefaults(ctx context.Context, id uint64) (*entities.EquipmentDefaults, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeyEquipmentDefaults, id)

	if cached, err := s.cacheRepo.Get(ctx, cacheKey); err == nil && cached != "" {
		var defaults entities.EquipmentDefaults
		if err := json.Unmarshal([]byte(cached), &defaults); err == nil {
			return &defaults, nil
		}
		// Повреждённый кэш — читаем из БД и перезаписываем.
	}

	defaults, err := s.equipmentRepo.GetDefaults(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(defaults); err == nil {
		if err := s.cacheRepo.Set(ctx, cacheKey, string(raw), s.defaultsTTL); err != nil {
			s.logger.Warn("не удалось записать кэш маршрутизации", zap.Error(err))
		}
	}

	return defaults, nil
}

func (s *EquipmentService) CountOpenRequests(ctx context.Context, id uint64) (uint64, error) {
	if _, err := s.equipmentRepo.FindEquipment(ctx, id); err != nil {
		return 0, err
	}
	return s.requestRepo.CountOpenByEquipment(ctx, id)
}

func (s *EquipmentService) invalidateDefaults(ctx context.Context, id uint64) {
	cacheKey := fmt.Sprintf(constants.CacheKeyEquipmentDefaults, id)
	if err := s.cacheRepo.Del(ctx, cacheKey); err != nil {
		s.logger.Warn("не удалось сбросить кэш маршрутизации", zap.Error(err))
	}
}
