package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
)

type ReportServiceInterface interface {
	GetRequestsForExport(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, error)
}

type ReportService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{requestRepo: requestRepo, logger: logger}
}

// GetRequestsForExport отдаёт заявки для выгрузки в xlsx.
// Экспорт доступен только Admin/Manager, поэтому срез всегда полный.
func (s *ReportService) GetRequestsForExport(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ReportExport) {
		s.logger.Warn("попытка выгрузки отчёта без права report:export", zap.Uint64("userID", actor.ID))
		return nil, apperrors.NewAuthorizationError("роль %q не может выгружать отчёты", actor.Role)
	}

	filter.WithPagination = false
	requests, _, err := s.requestRepo.GetRequests(ctx, authz.RequestScope{All: true}, filter)
	if err != nil {
		return nil, err
	}
	return requests, nil
}
