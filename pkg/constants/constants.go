// pkg/constants/constants.go
package constants

//============== РОЛИ ==============

// Роли пользователей. Хранятся в БД строкой, все ролевые проверки идут по этим константам.
const (
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleWorker     = "Worker"
	RoleTechnician = "Technician"
)

var AllRoles = []string{RoleAdmin, RoleManager, RoleWorker, RoleTechnician}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RequiresTeam — техники и работники привязаны к бригаде, админ/менеджер могут быть без неё.
func RequiresTeam(role string) bool {
	return role == RoleWorker || role == RoleTechnician
}

//============== СТАТУСЫ ЗАЯВОК ==============

const (
	RequestStatusNew        = "New"
	RequestStatusInProgress = "In Progress"
	RequestStatusRepaired   = "Repaired"
	RequestStatusScrap      = "Scrap"
)

// Открытые статусы: заявка ещё в работе, оборудование с такими заявками удалять нельзя.
var OpenRequestStatuses = []string{RequestStatusNew, RequestStatusInProgress}

//============== СТАТУСЫ ОБОРУДОВАНИЯ ==============

const (
	EquipmentStatusActive  = "Active"
	EquipmentStatusPending = "Pending Approval"
	EquipmentStatusScrap   = "Scrap"
)

//============== ТИПЫ И ПРИОРИТЕТЫ ЗАЯВОК ==============

const (
	RequestTypeCorrective = "Corrective"
	RequestTypePreventive = "Preventive"
)

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

//============== CACHE KEYS ==============

const (
	// Кэш маршрутизации по умолчанию для оборудования.
	// Формат: equipment_defaults:<equipmentID> -> JSON
	CacheKeyEquipmentDefaults = "equipment_defaults:%d"
)
