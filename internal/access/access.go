// Package access — библиотека предикатов авторизации.
// Все проверки прав в ядре проходят через эти чистые функции,
// никакой ad-hoc логики в сервисах быть не должно.
package access

import (
	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/model"
)

// HasRole сообщает, входит ли роль в список разрешённых.
func HasRole(role model.Role, allowed ...model.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// IsOwnerOrAdmin: админ видит всё, остальные — только бронирования,
// где они заказчик или исполнитель.
func IsOwnerOrAdmin(callerID uuid.UUID, role model.Role, customerID, providerID uuid.UUID) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleCustomer, model.RoleProvider:
		return callerID == customerID || callerID == providerID
	default:
		return false
	}
}

// CanViewBooking — видимость бронирования.
func CanViewBooking(callerID uuid.UUID, role model.Role, b *model.Booking) bool {
	return IsOwnerOrAdmin(callerID, role, b.CustomerID, b.ProviderID)
}

// CanMutateBooking — право менять статус бронирования.
// Совпадает с правилом видимости: админ, заказчик или исполнитель.
func CanMutateBooking(callerID uuid.UUID, role model.Role, b *model.Booking) bool {
	return IsOwnerOrAdmin(callerID, role, b.CustomerID, b.ProviderID)
}
