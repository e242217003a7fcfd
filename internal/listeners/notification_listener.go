package listeners

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/events"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/eventbus"
)

// NotificationListener пишет уведомления о ключевых переходах заявок.
// Пока канал доставки — журнал; шина развязывает его от бизнес-логики,
// так что транспорт можно заменить, не трогая сервисы.
type NotificationListener struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewNotificationListener(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("request.scrapped", l.handleRequestScrapped)
	bus.Subscribe("request.accepted", l.handleRequestAccepted)
}

func (l *NotificationListener) handleRequestScrapped(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestScrappedEvent)
	if !ok || e.Request == nil {
		return nil
	}

	actor, err := l.userRepo.FindUserByID(ctx, e.ActorID)
	if err != nil {
		return err
	}

	l.logger.Info("оборудование списано по заявке",
		zap.Uint64("requestID", e.Request.ID),
		zap.Uint64("equipmentID", e.Equipment),
		zap.String("actor", actor.Name),
	)
	return nil
}

func (l *NotificationListener) handleRequestAccepted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestAcceptedEvent)
	if !ok {
		return nil
	}

	technician, err := l.userRepo.FindUserByID(ctx, e.TechnicianID)
	if err != nil {
		return err
	}

	l.logger.Info("заявка взята в работу",
		zap.Uint64("requestID", e.RequestID),
		zap.String("technician", technician.Name),
	)
	return nil
}
