package booking

import (
	"testing"
	"time"

	"github.com/fixlink/marketplace-core/internal/apperr"
)

func TestValidateSchedule_FutureOK(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := ValidateSchedule(now.Add(time.Hour), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSchedule_PastRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := ValidateSchedule(now.Add(-time.Hour), now)
	if err == nil {
		t.Fatalf("expected error for past date")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation, got %v", apperr.KindOf(err))
	}
}

func TestValidateSchedule_ExactlyNowRejected(t *testing.T) {
	// Строго в будущем: совпадение с "сейчас" не проходит.
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := ValidateSchedule(now, now); err == nil {
		t.Fatalf("expected error for date equal to now")
	}
}

func TestValidateSchedule_ZeroRejected(t *testing.T) {
	if err := ValidateSchedule(time.Time{}, time.Now()); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestValidateDuration_Bounds(t *testing.T) {
	for _, ok := range []float64{0.5, 1, 2.5, 24} {
		if err := ValidateDuration(ok); err != nil {
			t.Fatalf("expected %v hours to be valid, got %v", ok, err)
		}
	}
	for _, bad := range []float64{0, 0.25, -1, 24.5, 100} {
		if err := ValidateDuration(bad); err == nil {
			t.Fatalf("expected %v hours to be invalid", bad)
		}
	}
}

func TestValidateCoordinates(t *testing.T) {
	if err := ValidateCoordinates([]float64{55.27, 25.2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range [][]float64{nil, {1}, {1, 2, 3}} {
		if err := ValidateCoordinates(bad); err == nil {
			t.Fatalf("expected error for coordinates %v", bad)
		}
	}
}

func TestValidateRating_Bounds(t *testing.T) {
	for r := 1; r <= 5; r++ {
		if err := ValidateRating(r); err != nil {
			t.Fatalf("expected rating %d to be valid, got %v", r, err)
		}
	}
	for _, bad := range []int{0, -1, 6, 10} {
		if err := ValidateRating(bad); err == nil {
			t.Fatalf("expected rating %d to be invalid", bad)
		}
	}
}
