// Package booking содержит чистые правила жизненного цикла бронирования:
// таблицу переходов статусов, политику доступности слота,
// пересчёт агрегированного рейтинга и пагинацию.
package booking

import (
	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
)

// Таблица допустимых переходов. Начальный статус — pending,
// терминальные — completed, cancelled, rejected.
var validTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingStatusPending: {
		model.BookingStatusConfirmed,
		model.BookingStatusCancelled,
		model.BookingStatusRejected,
	},
	model.BookingStatusConfirmed: {
		model.BookingStatusInProgress,
		model.BookingStatusCancelled,
	},
	model.BookingStatusInProgress: {
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
	},
	model.BookingStatusCompleted: {},
	model.BookingStatusCancelled: {},
	model.BookingStatusRejected:  {},
}

// CanTransition сообщает, разрешён ли переход from -> to.
func CanTransition(from, to model.BookingStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition возвращает типизированную ошибку с именованной парой
// статусов, если переход запрещён. Статус бронирования при этом не меняется.
func ValidateTransition(from, to model.BookingStatus) error {
	if !to.Valid() {
		return apperr.Validation("unknown booking status %q", to)
	}
	if !CanTransition(from, to) {
		return apperr.InvalidState("cannot change status from %s to %s", from, to)
	}
	return nil
}

// IsTerminal сообщает, что из статуса нет ни одного перехода.
func IsTerminal(s model.BookingStatus) bool {
	return len(validTransitions[s]) == 0
}
