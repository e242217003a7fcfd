package lifecycle

import (
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
)

// Явная таблица переходов жизненного цикла заявки.
// Всё, чего здесь нет, запрещено; из Repaired и Scrap выхода нет.
var transitions = map[string]map[string]bool{
	constants.RequestStatusNew: {
		constants.RequestStatusInProgress: true,
		constants.RequestStatusScrap:      true,
	},
	constants.RequestStatusInProgress: {
		constants.RequestStatusRepaired: true,
		constants.RequestStatusScrap:    true,
	},
	constants.RequestStatusRepaired: {},
	constants.RequestStatusScrap:    {},
}

func IsValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

func IsTerminal(status string) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

// CanTransition — разрешён ли переход. Запись того же статуса переходом не считается.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	next, ok := transitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// ValidateTransition проверяет переход и его охранные условия.
// hasDuration — есть ли длительность (старая или из текущего патча):
// без неё в Repaired перейти нельзя.
func ValidateTransition(from, to string, hasDuration bool) error {
	if !IsValidStatus(to) {
		return apperrors.NewValidationError("недопустимый статус заявки: %q", to)
	}
	if !CanTransition(from, to) {
		return apperrors.NewStateError("переход из статуса %q в %q невозможен", from, to)
	}
	if to == constants.RequestStatusRepaired && from != to && !hasDuration {
		return apperrors.NewValidationError("для перевода заявки в статус %q требуется указать длительность работ", constants.RequestStatusRepaired)
	}
	return nil
}
