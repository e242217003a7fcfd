package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/lifecycle"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
)

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*entities.MaintenanceRequest, error)
	AcceptRequest(ctx context.Context, id uint64, payload dto.AcceptRequestDTO) (*entities.MaintenanceRequest, error)
	UpdateStage(ctx context.Context, id uint64, payload dto.UpdateRequestStageDTO) (*entities.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, id uint64) error
}

type RequestService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	txManager     repositories.TxManagerInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewRequestService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		bus:           bus,
		logger:        logger,
	}
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	scope := authz.RequestListScope(actor)
	return s.requestRepo.GetRequests(ctx, scope, filter)
}

// FindRequest отдаёт заявку с учётом видимости роли.
// Невидимая заявка неотличима от несуществующей.
func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.isVisible(actor, request) {
		return nil, apperrors.NewNotFoundError("заявка с id=%d не найдена", id)
	}
	return request, nil
}

func (s *RequestService) isVisible(actor *authz.Actor, request *entities.MaintenanceRequest) bool {
	scope := authz.RequestListScope(actor)
	switch {
	case scope.All:
		return true
	case scope.CreatedBy != nil:
		return request.CreatedBy == *scope.CreatedBy
	case scope.TechnicianID != nil:
		if request.TechnicianID != nil && *request.TechnicianID == *scope.TechnicianID {
			return true
		}
		return request.TechnicianID == nil &&
			scope.UnassignedTeamID != nil &&
			request.TeamID != nil && *request.TeamID == *scope.UnassignedTeamID
	default:
		return false
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.RequestCreate) {
		return nil, apperrors.NewAuthorizationError("роль %q не может создавать заявки", actor.Role)
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, payload.EquipmentID)
	if err != nil {
		return nil, err
	}

	priority := payload.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}

	// Маршрутизация не выбирается заявителем: бригада и техник копируются
	// с оборудования на момент создания, оба могут быть пустыми.
	request := &entities.MaintenanceRequest{
		Subject:       payload.Subject,
		RequestType:   payload.RequestType,
		ScheduledDate: payload.ScheduledDate,
		Priority:      priority,
		Status:        constants.RequestStatusNew,
		Notes:         payload.Notes,
		EquipmentID:   equipment.ID,
		TeamID:        equipment.MaintenanceTeamID,
		TechnicianID:  equipment.TechnicianID,
		CreatedBy:     actor.ID,
	}

	id, err := s.requestRepo.CreateRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	s.logger.Info("создана заявка на обслуживание",
		zap.Uint64("requestID", id),
		zap.Uint64("equipmentID", equipment.ID),
		zap.Uint64("actorID", actor.ID))

	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) AcceptRequest(ctx context.Context, id uint64, payload dto.AcceptRequestDTO) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.RequestAccept) {
		return nil, apperrors.NewAuthorizationError("принимать заявки может только техник")
	}

	request, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.Status != constants.RequestStatusNew {
		return nil, apperrors.NewStateError("заявку в статусе %q нельзя принять в работу", request.Status)
	}

	// Предназначенную себе заявку техник принимает всегда; чужую —
	// только если бригады совпадают.
	preAssignedToCaller := request.TechnicianID != nil && *request.TechnicianID == actor.ID
	if !preAssignedToCaller {
		if request.TeamID != nil && actor.TeamID != nil && *request.TeamID != *actor.TeamID {
			return nil, apperrors.NewAuthorizationError("заявка закреплена за другой бригадой")
		}
	}

	technicianID := actor.ID
	if payload.TechnicianID != nil {
		technicianID = *payload.TechnicianID
	}

	// Условный UPDATE: из двух одновременных техников переход получит один.
	accepted, err := s.requestRepo.AcceptRequest(ctx, id, technicianID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, apperrors.NewStateError("заявка уже взята в работу")
	}

	s.bus.Publish(ctx, events.RequestAcceptedEvent{RequestID: id, TechnicianID: technicianID})

	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) UpdateStage(ctx context.Context, id uint64, payload dto.UpdateRequestStageDTO) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.RequestUpdate) {
		return nil, apperrors.NewAuthorizationError("роль %q не может изменять заявки", actor.Role)
	}

	request, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	// Ролевые предикаты. Порядок проверок у работника фиксирован:
	// сначала владение, затем состояние, затем маска полей.
	switch actor.Role {
	case constants.RoleWorker:
		if request.CreatedBy != actor.ID {
			return nil, apperrors.NewAuthorizationError("работник может изменять только свои заявки")
		}
		if request.Status != constants.RequestStatusNew {
			return nil, apperrors.NewStateError("заявку в статусе %q работник изменять не может", request.Status)
		}
	case constants.RoleTechnician:
		if request.TechnicianID != nil && *request.TechnicianID != actor.ID {
			return nil, apperrors.NewAuthorizationError("заявка назначена другому технику")
		}
	}

	for _, field := range providedStageFields(payload) {
		if !authz.CanEditRequestField(actor.Role, field) {
			return nil, apperrors.NewAuthorizationError("роль %q не может изменять поле %q", actor.Role, field)
		}
	}

	oldStatus := request.Status

	if payload.Subject.Valid {
		request.Subject = payload.Subject.String
	}
	if payload.Duration.Valid {
		request.Duration = payload.Duration
	}
	if payload.ScheduledDate.Valid {
		request.ScheduledDate = payload.ScheduledDate
	}
	if payload.Notes.Valid {
		request.Notes = payload.Notes
	}
	if payload.Status.Valid {
		if err := lifecycle.ValidateTransition(oldStatus, payload.Status.String, request.Duration.Valid); err != nil {
			return nil, err
		}
		request.Status = payload.Status.String
	}

	// Перевод в Scrap списывает оборудование той же транзакцией:
	// либо меняются обе записи, либо ни одной.
	if request.Status == constants.RequestStatusScrap && oldStatus != constants.RequestStatusScrap {
		err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			if err := s.requestRepo.UpdateRequestInTx(ctx, tx, id, request); err != nil {
				return err
			}
			return s.equipmentRepo.SetScrapInTx(ctx, tx, request.EquipmentID)
		})
		if err != nil {
			return nil, err
		}

		s.bus.Publish(ctx, events.RequestScrappedEvent{
			Request:   request,
			ActorID:   actor.ID,
			Equipment: request.EquipmentID,
		})
		s.logger.Info("заявка переведена в Scrap, оборудование списано",
			zap.Uint64("requestID", id),
			zap.Uint64("equipmentID", request.EquipmentID))
	} else {
		if err := s.requestRepo.UpdateRequest(ctx, id, request); err != nil {
			return nil, err
		}
	}

	return s.requestRepo.FindRequest(ctx, id)
}

func (s *RequestService) DeleteRequest(ctx context.Context, id uint64) error {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.RequestDelete) {
		return apperrors.NewAuthorizationError("удалять заявки может только администратор")
	}
	return s.requestRepo.DeleteRequest(ctx, id)
}

// providedStageFields — какие поля реально присутствуют в патче.
func providedStageFields(payload dto.UpdateRequestStageDTO) []string {
	fields := make([]string, 0, 5)
	if payload.Subject.Valid {
		fields = append(fields, authz.FieldSubject)
	}
	if payload.Status.Valid {
		fields = append(fields, authz.FieldStatus)
	}
	if payload.Duration.Valid {
		fields = append(fields, authz.FieldDuration)
	}
	if payload.ScheduledDate.Valid {
		fields = append(fields, authz.FieldScheduledDate)
	}
	if payload.Notes.Valid {
		fields = append(fields, authz.FieldNotes)
	}
	return fields
}
