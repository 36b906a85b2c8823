package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/access"
	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/booking"
	"github.com/fixlink/marketplace-core/internal/events"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
)

// EventPublisher — шина событий. Публикация best-effort,
// ядро никогда не блокируется на ней и не откатывает запись при сбое.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// BookingService — жизненный цикл бронирования: создание, переходы
// статусов, отзывы и производные рейтинги.
type BookingService struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	pub         EventPublisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	pub EventPublisher,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		pub:         pub,
	}
}

// CreateBookingInput — провалидированный транспортом запрос.
// Ядро всё равно перепроверяет роль и инварианты самостоятельно.
type CreateBookingInput struct {
	ServiceID           uuid.UUID
	ScheduledDate       time.Time
	ScheduledTime       string
	Duration            float64
	LocationAddress     string
	Coordinates         []float64
	Description         string
	SpecialInstructions string
}

// Create создаёт бронирование от имени заказчика.
// Сумма фиксируется как цена услуги * длительность и далее не пересчитывается.
func (s *BookingService) Create(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	in CreateBookingInput,
) (*model.Booking, error) {
	if !access.HasRole(role, model.RoleCustomer, model.RoleAdmin) {
		return nil, apperr.Forbidden("only customers can create bookings")
	}

	svc, err := s.serviceRepo.GetByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, apperr.Internal("load service", err)
	}
	if !svc.IsActive {
		return nil, apperr.InvalidState("service is not active")
	}
	if svc.Provider == nil || !svc.Provider.IsActive {
		return nil, apperr.InvalidState("provider is not available")
	}

	now := time.Now().UTC()
	if err := booking.ValidateSchedule(in.ScheduledDate, now); err != nil {
		return nil, err
	}
	if err := booking.ValidateDuration(in.Duration); err != nil {
		return nil, err
	}
	if err := booking.ValidateCoordinates(in.Coordinates); err != nil {
		return nil, err
	}
	if in.ScheduledTime == "" {
		return nil, apperr.Validation("scheduled time is required")
	}
	if in.LocationAddress == "" {
		return nil, apperr.Validation("location address is required")
	}
	if err := booking.ValidateTextLen("description", in.Description, booking.MaxDescriptionLen); err != nil {
		return nil, err
	}
	if err := booking.ValidateTextLen("special instructions", in.SpecialInstructions, booking.MaxInstructionsLen); err != nil {
		return nil, err
	}

	b := &model.Booking{
		CustomerID:          callerID,
		ProviderID:          svc.ProviderID,
		ServiceID:           svc.ID,
		Status:              model.BookingStatusPending,
		ScheduledDate:       in.ScheduledDate,
		ScheduledTime:       in.ScheduledTime,
		Duration:            in.Duration,
		TotalAmount:         svc.Price * in.Duration,
		LocationAddress:     in.LocationAddress,
		Coordinates:         datatypes.NewJSONSlice(in.Coordinates),
		Description:         in.Description,
		SpecialInstructions: in.SpecialInstructions,
		PaymentStatus:       model.PaymentStatusPending,
		PaymentMethod:       model.PaymentMethodCard,
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, apperr.Internal("create booking", err)
	}

	s.publish(ctx, events.KeyBookingCreated, events.BookingCreated{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		Scheduled:  b.ScheduledDate,
		Amount:     b.TotalAmount,
	})

	return s.resolved(ctx, b.ID)
}

// List возвращает страницу бронирований в области видимости вызывающего.
func (s *BookingService) List(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	status model.BookingStatus,
	page, pageSize int,
) (booking.Page[model.Booking], error) {
	var zero booking.Page[model.Booking]

	filter, err := scopeFilter(callerID, role)
	if err != nil {
		return zero, err
	}
	if status != "" {
		if !status.Valid() {
			return zero, apperr.Validation("unknown booking status %q", status)
		}
		filter.Status = status
	}

	page, pageSize, offset := booking.NormalizePage(page, pageSize)
	items, total, err := s.bookingRepo.List(ctx, filter, pageSize, offset)
	if err != nil {
		return zero, apperr.Internal("list bookings", err)
	}

	return booking.NewPage(items, page, pageSize, total), nil
}

// GetByID возвращает бронирование со всеми связями.
func (s *BookingService) GetByID(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	bookingID uuid.UUID,
) (*model.Booking, error) {
	b, err := s.resolved(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewBooking(callerID, role, b) {
		return nil, apperr.Forbidden("not authorized to view this booking")
	}
	return b, nil
}

// UpdateStatus выполняет переход статуса по таблице переходов.
// При отмене/отклонении фиксирует, кто отменил: заказчик, если вызывающий —
// заказчик бронирования, иначе исполнитель. Админ, не являющийся стороной,
// намеренно проваливается в provider — поведение исходной системы сохранено.
func (s *BookingService) UpdateStatus(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
	bookingID uuid.UUID,
	newStatus model.BookingStatus,
	cancellationReason string,
) (*model.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Internal("load booking", err)
	}

	if !access.CanMutateBooking(callerID, role, b) {
		return nil, apperr.Forbidden("not authorized to update this booking")
	}

	if err := booking.ValidateTransition(b.Status, newStatus); err != nil {
		return nil, err
	}
	if err := booking.ValidateTextLen("cancellation reason", cancellationReason, booking.MaxCancelReasonLen); err != nil {
		return nil, err
	}

	prev := b.Status
	b.Status = newStatus

	if newStatus == model.BookingStatusCancelled || newStatus == model.BookingStatusRejected {
		if callerID == b.CustomerID {
			b.CancelledBy = model.CancelledByCustomer
		} else {
			b.CancelledBy = model.CancelledByProvider
		}
		if cancellationReason != "" {
			b.CancellationReason = cancellationReason
		}
	}

	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, apperr.Internal("update booking", err)
	}

	s.publish(ctx, events.KeyBookingStatusChanged, events.BookingStatusChanged{
		BookingID: b.ID,
		From:      string(prev),
		To:        string(newStatus),
		ChangedBy: callerID,
	})

	return s.resolved(ctx, b.ID)
}

// AddReview прикрепляет отзыв к завершённому бронированию (не более одного)
// и пересчитывает производные рейтинги исполнителя и услуги полным
// пересканом оценок.
func (s *BookingService) AddReview(
	ctx context.Context,
	callerID uuid.UUID,
	bookingID uuid.UUID,
	rating int,
	reviewText string,
) (*model.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Internal("load booking", err)
	}

	if b.CustomerID != callerID {
		return nil, apperr.Forbidden("not authorized to review this booking")
	}
	if b.Status != model.BookingStatusCompleted {
		return nil, apperr.InvalidState("can only review completed bookings")
	}
	if b.HasReview() {
		return nil, apperr.Conflict("booking already reviewed")
	}
	if err := booking.ValidateRating(rating); err != nil {
		return nil, err
	}
	if err := booking.ValidateTextLen("review", reviewText, booking.MaxReviewLen); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b.Rating = &rating
	b.Review = reviewText
	b.ReviewDate = &now

	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, apperr.Internal("save review", err)
	}

	if err := s.recomputeProviderRating(ctx, b.ProviderID); err != nil {
		return nil, err
	}
	if err := s.recomputeServiceRating(ctx, b.ServiceID); err != nil {
		return nil, err
	}

	s.publish(ctx, events.KeyBookingReviewed, events.BookingReviewed{
		BookingID:  b.ID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		Rating:     rating,
	})

	return s.resolved(ctx, b.ID)
}

// BookingStats — сводка по бронированиям в области видимости вызывающего.
type BookingStats struct {
	Counts         map[model.BookingStatus]int64 `json:"counts"`
	Total          int64                         `json:"total"`
	Completed      int64                         `json:"completed"`
	CompletionRate float64                       `json:"completionRate"`
}

// Stats считает количество бронирований по статусам и долю завершённых.
func (s *BookingService) Stats(
	ctx context.Context,
	callerID uuid.UUID,
	role model.Role,
) (BookingStats, error) {
	var zero BookingStats

	filter, err := scopeFilter(callerID, role)
	if err != nil {
		return zero, err
	}

	counts, err := s.bookingRepo.CountByStatus(ctx, filter)
	if err != nil {
		return zero, apperr.Internal("count bookings", err)
	}

	// Нулевые статусы тоже присутствуют в выдаче.
	all := []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusInProgress,
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
		model.BookingStatusRejected,
	}
	full := make(map[model.BookingStatus]int64, len(all))
	var total int64
	for _, st := range all {
		full[st] = counts[st]
		total += counts[st]
	}

	completed := full[model.BookingStatusCompleted]
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}

	return BookingStats{
		Counts:         full,
		Total:          total,
		Completed:      completed,
		CompletionRate: rate,
	}, nil
}

// scopeFilter — область видимости по роли. Исчерпывающий switch
// по закрытому набору ролей.
func scopeFilter(callerID uuid.UUID, role model.Role) (repository.BookingFilter, error) {
	switch role {
	case model.RoleCustomer:
		return repository.BookingFilter{CustomerID: &callerID}, nil
	case model.RoleProvider:
		return repository.BookingFilter{ProviderID: &callerID}, nil
	case model.RoleAdmin:
		return repository.BookingFilter{}, nil
	default:
		return repository.BookingFilter{}, apperr.Forbidden("unknown role %q", role)
	}
}

func (s *BookingService) recomputeProviderRating(ctx context.Context, providerID uuid.UUID) error {
	ratings, err := s.bookingRepo.RatingsByProvider(ctx, providerID)
	if err != nil {
		return apperr.Internal("load provider ratings", err)
	}
	agg := booking.RecomputeRating(ratings)
	if err := s.userRepo.SetRating(ctx, providerID, agg.Mean, agg.Count); err != nil {
		return apperr.Internal("save provider rating", err)
	}
	return nil
}

func (s *BookingService) recomputeServiceRating(ctx context.Context, serviceID uuid.UUID) error {
	ratings, err := s.bookingRepo.RatingsByService(ctx, serviceID)
	if err != nil {
		return apperr.Internal("load service ratings", err)
	}
	agg := booking.RecomputeRating(ratings)
	if err := s.serviceRepo.SetRating(ctx, serviceID, agg.Mean, agg.Count); err != nil {
		return apperr.Internal("save service rating", err)
	}
	return nil
}

func (s *BookingService) resolved(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := s.bookingRepo.GetResolved(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Internal("load booking", err)
	}
	return b, nil
}

func (s *BookingService) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishJSON(ctx, key, v); err != nil {
		log.Printf("publish %s: %v", key, err)
	}
}
