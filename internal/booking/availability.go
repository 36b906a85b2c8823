package booking

import (
	"time"

	"github.com/fixlink/marketplace-core/internal/apperr"
)

// Границы длительности бронирования в часах.
const (
	MinDurationHours = 0.5
	MaxDurationHours = 24
)

// Максимальные длины свободного текста на бронировании.
const (
	MaxDescriptionLen  = 1000
	MaxInstructionsLen = 500
	MaxCancelReasonLen = 500
	MaxReviewLen       = 1000
)

// ValidateSchedule — политика доступности: дата должна быть строго в будущем
// на момент вызова. Недельный график услуги здесь сознательно не проверяется —
// исходная система его при создании бронирования не учитывает.
func ValidateSchedule(scheduledDate time.Time, now time.Time) error {
	if scheduledDate.IsZero() {
		return apperr.Validation("scheduled date is required")
	}
	if !scheduledDate.After(now) {
		return apperr.Validation("booking date must be in the future")
	}
	return nil
}

// ValidateDuration проверяет границы длительности в часах.
func ValidateDuration(hours float64) error {
	if hours < MinDurationHours || hours > MaxDurationHours {
		return apperr.Validation("duration must be between %v and %v hours", MinDurationHours, MaxDurationHours)
	}
	return nil
}

// ValidateCoordinates требует ровно пару [lng, lat].
func ValidateCoordinates(coords []float64) error {
	if len(coords) != 2 {
		return apperr.Validation("location coordinates must contain exactly 2 numbers")
	}
	return nil
}

// ValidateRating — целая оценка от 1 до 5.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("rating must be an integer between 1 and 5")
	}
	return nil
}

// ValidateTextLen — общий ограничитель свободного текста.
func ValidateTextLen(field, value string, max int) error {
	if len(value) > max {
		return apperr.Validation("%s must be at most %d characters", field, max)
	}
	return nil
}
