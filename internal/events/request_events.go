package events

import (
	"maintenance-system/internal/entities"
)

// RequestScrappedEvent возникает после коммита транзакции, в которой заявка
// переведена в Scrap и оборудование помечено списанным.
type RequestScrappedEvent struct {
	Request   *entities.MaintenanceRequest
	ActorID   uint64
	Equipment uint64
}

func (e RequestScrappedEvent) Name() string {
	return "request.scrapped"
}

// RequestAcceptedEvent возникает, когда техник взял заявку в работу.
type RequestAcceptedEvent struct {
	RequestID    uint64
	TechnicianID uint64
}

func (e RequestAcceptedEvent) Name() string {
	return "request.accepted"
}
