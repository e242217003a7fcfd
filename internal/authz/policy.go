package authz

import (
	"maintenance-system/pkg/constants"
)

// Операции ядра. Формат "сущность:действие" — как ключи в таблице политик.
const (
	EquipmentCreate = "equipment:create"
	EquipmentUpdate = "equipment:update"
	EquipmentDelete = "equipment:delete"

	RequestCreate = "request:create"
	RequestAccept = "request:accept"
	RequestUpdate = "request:update"
	RequestDelete = "request:delete"

	ReportExport = "report:export"
)

// Поля заявки, доступные в UpdateStage. Ключи масок ниже.
const (
	FieldSubject       = "subject"
	FieldStatus        = "status"
	FieldDuration      = "duration"
	FieldScheduledDate = "scheduled_date"
	FieldNotes         = "notes"
)

func roleSet(roles ...string) map[string]bool {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}

// Таблица политик: операция -> допустимые роли.
// Раньше эти проверки были размазаны if-ами по обработчикам; здесь — одна таблица.
var operationRoles = map[string]map[string]bool{
	EquipmentCreate: roleSet(constants.RoleAdmin, constants.RoleManager, constants.RoleWorker),
	EquipmentUpdate: roleSet(constants.RoleAdmin, constants.RoleManager, constants.RoleWorker),
	EquipmentDelete: roleSet(constants.RoleAdmin),

	RequestCreate: roleSet(constants.RoleAdmin, constants.RoleManager, constants.RoleWorker),
	RequestAccept: roleSet(constants.RoleTechnician),
	RequestUpdate: roleSet(constants.RoleAdmin, constants.RoleManager, constants.RoleWorker, constants.RoleTechnician),
	RequestDelete: roleSet(constants.RoleAdmin),

	ReportExport: roleSet(constants.RoleAdmin, constants.RoleManager),
}

// Маски полей для request:update: (роль -> какие поля можно менять).
// Manager намеренно приравнен к Admin.
var updateStageFields = map[string]map[string]bool{
	constants.RoleAdmin:      roleSet(FieldSubject, FieldStatus, FieldDuration, FieldScheduledDate, FieldNotes),
	constants.RoleManager:    roleSet(FieldSubject, FieldStatus, FieldDuration, FieldScheduledDate, FieldNotes),
	constants.RoleWorker:     roleSet(FieldSubject),
	constants.RoleTechnician: roleSet(FieldSubject, FieldStatus, FieldDuration, FieldScheduledDate, FieldNotes),
}

// Can — базовая RBAC-проверка по таблице.
func Can(actor *Actor, operation string) bool {
	if actor == nil {
		return false
	}
	roles, ok := operationRoles[operation]
	if !ok {
		return false
	}
	return roles[actor.Role]
}

// CanEditRequestField — проверка маски полей для request:update.
func CanEditRequestField(role string, field string) bool {
	fields, ok := updateStageFields[role]
	if !ok {
		return false
	}
	return fields[field]
}

// CanSetEquipmentStatus — право проставлять статус оборудования (одобрение).
// Для остальных ролей поле статуса молча выбрасывается из патча, это
// осознанная политика частичного применения, а не отказ.
func CanSetEquipmentStatus(role string) bool {
	return role == constants.RoleAdmin || role == constants.RoleManager
}

// RequestScope описывает, какой срез заявок видит роль в списках.
// Поля комбинируются с пользовательскими фильтрами по AND.
type RequestScope struct {
	// All — без ограничений (Admin/Manager).
	All bool
	// CreatedBy — только собственные заявки (Worker).
	CreatedBy *uint64
	// TechnicianID — назначенные на себя (Technician) ...
	TechnicianID *uint64
	// ... плюс неназначенные заявки своей бригады, если она есть.
	UnassignedTeamID *uint64
}

// RequestListScope вычисляет срез видимости для актора.
// Для техника выбран вариант "назначено мне ИЛИ свободные в моей бригаде":
// иначе техник не видел бы заявки, которые ему разрешено принимать.
func RequestListScope(actor *Actor) RequestScope {
	switch actor.Role {
	case constants.RoleAdmin, constants.RoleManager:
		return RequestScope{All: true}
	case constants.RoleWorker:
		id := actor.ID
		return RequestScope{CreatedBy: &id}
	case constants.RoleTechnician:
		id := actor.ID
		scope := RequestScope{TechnicianID: &id}
		if actor.TeamID != nil {
			teamID := *actor.TeamID
			scope.UnassignedTeamID = &teamID
		}
		return scope
	default:
		// Неизвестная роль не видит ничего.
		zero := uint64(0)
		return RequestScope{CreatedBy: &zero}
	}
}
