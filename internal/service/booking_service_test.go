package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
)

type bookingTestEnv struct {
	svc      *BookingService
	db       *gorm.DB
	customer *model.User
	provider *model.User
	admin    *model.User
	offer    *model.Service
}

func newBookingTestEnv(t *testing.T) *bookingTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	customer := &model.User{
		FirstName: "Anna", LastName: "Customer",
		Email: "anna@example.com", PasswordHash: "x",
		Role: model.RoleCustomer, IsActive: true,
	}
	provider := &model.User{
		FirstName: "Boris", LastName: "Provider",
		Email: "boris@example.com", PasswordHash: "x",
		Role: model.RoleProvider, IsActive: true,
	}
	admin := &model.User{
		FirstName: "Root", LastName: "Admin",
		Email: "admin@example.com", PasswordHash: "x",
		Role: model.RoleAdmin, IsActive: true,
	}
	for _, u := range []*model.User{customer, provider, admin} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	offer := &model.Service{
		ProviderID:  provider.ID,
		Name:        "Pipe repair",
		Category:    model.CategoryPlumbing,
		Description: "Fixing leaks and replacing pipes",
		Price:       85,
		PriceType:   model.PriceHourly,
		IsActive:    true,
	}
	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	svc := NewBookingService(
		repository.NewGormBookingRepository(db),
		repository.NewGormServiceRepository(db),
		repository.NewGormUserRepository(db),
		nil,
	)

	return &bookingTestEnv{
		svc: svc, db: db,
		customer: customer, provider: provider, admin: admin,
		offer: offer,
	}
}

func validInput(env *bookingTestEnv) CreateBookingInput {
	return CreateBookingInput{
		ServiceID:       env.offer.ID,
		ScheduledDate:   time.Now().UTC().Add(72 * time.Hour),
		ScheduledTime:   "10:00",
		Duration:        2,
		LocationAddress: "12 Main St",
		Coordinates:     []float64{55.27, 25.2},
		Description:     "Kitchen sink is leaking",
	}
}

func (env *bookingTestEnv) mustCreate(t *testing.T) *model.Booking {
	t.Helper()
	b, err := env.svc.Create(context.Background(), env.customer.ID, model.RoleCustomer, validInput(env))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func (env *bookingTestEnv) mustTransition(t *testing.T, callerID uuid.UUID, role model.Role, id uuid.UUID, to model.BookingStatus) *model.Booking {
	t.Helper()
	b, err := env.svc.UpdateStatus(context.Background(), callerID, role, id, to, "")
	if err != nil {
		t.Fatalf("transition to %s: %v", to, err)
	}
	return b
}

// mustComplete проводит бронирование по полному пути
// pending -> confirmed -> in-progress -> completed.
func (env *bookingTestEnv) mustComplete(t *testing.T, id uuid.UUID) *model.Booking {
	t.Helper()
	env.mustTransition(t, env.provider.ID, model.RoleProvider, id, model.BookingStatusConfirmed)
	env.mustTransition(t, env.provider.ID, model.RoleProvider, id, model.BookingStatusInProgress)
	return env.mustTransition(t, env.provider.ID, model.RoleProvider, id, model.BookingStatusCompleted)
}

func TestCreateBooking(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)

	if b.Status != model.BookingStatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	// 2 часа по 85 в час.
	if b.TotalAmount != 170 {
		t.Fatalf("expected total 170, got %v", b.TotalAmount)
	}
	if b.CustomerID != env.customer.ID || b.ProviderID != env.provider.ID {
		t.Fatalf("expected parties to be derived from the service record")
	}
	if b.Customer == nil || b.Provider == nil || b.Service == nil {
		t.Fatalf("expected resolved booking with preloaded relations")
	}
}

func TestCreateBooking_PastDate(t *testing.T) {
	env := newBookingTestEnv(t)

	in := validInput(env)
	in.ScheduledDate = time.Now().UTC().Add(-time.Hour)

	_, err := env.svc.Create(context.Background(), env.customer.ID, model.RoleCustomer, in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBooking_UnknownService(t *testing.T) {
	env := newBookingTestEnv(t)

	in := validInput(env)
	in.ServiceID = uuid.New()

	_, err := env.svc.Create(context.Background(), env.customer.ID, model.RoleCustomer, in)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateBooking_InactiveService(t *testing.T) {
	env := newBookingTestEnv(t)

	if err := env.db.Model(env.offer).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate service: %v", err)
	}

	_, err := env.svc.Create(context.Background(), env.customer.ID, model.RoleCustomer, validInput(env))
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCreateBooking_InactiveProvider(t *testing.T) {
	env := newBookingTestEnv(t)

	if err := env.db.Model(env.provider).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate provider: %v", err)
	}

	_, err := env.svc.Create(context.Background(), env.customer.ID, model.RoleCustomer, validInput(env))
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCreateBooking_ProviderRole(t *testing.T) {
	env := newBookingTestEnv(t)

	_, err := env.svc.Create(context.Background(), env.provider.ID, model.RoleProvider, validInput(env))
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateStatus_FullLifecycle(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	amount := b.TotalAmount

	b = env.mustComplete(t, b.ID)

	if b.Status != model.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", b.Status)
	}
	// Сумма фиксируется при создании и переходами не трогается.
	if b.TotalAmount != amount {
		t.Fatalf("expected amount %v to stay fixed, got %v", amount, b.TotalAmount)
	}
}

func TestUpdateStatus_ConfirmedToCompletedRejected(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	env.mustTransition(t, env.provider.ID, model.RoleProvider, b.ID, model.BookingStatusConfirmed)

	// Пропуск in-progress запрещён таблицей переходов.
	_, err := env.svc.UpdateStatus(context.Background(), env.provider.ID, model.RoleProvider, b.ID, model.BookingStatusCompleted, "")
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestUpdateStatus_TerminalStaysTerminal(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	env.mustTransition(t, env.provider.ID, model.RoleProvider, b.ID, model.BookingStatusRejected)

	_, err := env.svc.UpdateStatus(context.Background(), env.provider.ID, model.RoleProvider, b.ID, model.BookingStatusConfirmed, "")
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestUpdateStatus_Stranger(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)

	stranger := &model.User{
		FirstName: "Eve", LastName: "Stranger",
		Email: "eve@example.com", PasswordHash: "x",
		Role: model.RoleCustomer, IsActive: true,
	}
	if err := env.db.Create(stranger).Error; err != nil {
		t.Fatalf("seed stranger: %v", err)
	}

	_, err := env.svc.UpdateStatus(context.Background(), stranger.ID, model.RoleCustomer, b.ID, model.BookingStatusCancelled, "")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	_, err = env.svc.GetByID(context.Background(), stranger.ID, model.RoleCustomer, b.ID)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden on read, got %v", err)
	}
}

func TestUpdateStatus_CancelledByCustomer(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	b = env.mustTransition(t, env.customer.ID, model.RoleCustomer, b.ID, model.BookingStatusCancelled)

	if b.CancelledBy != model.CancelledByCustomer {
		t.Fatalf("expected cancelledBy customer, got %s", b.CancelledBy)
	}
}

func TestUpdateStatus_RejectedByProvider(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	b = env.mustTransition(t, env.provider.ID, model.RoleProvider, b.ID, model.BookingStatusRejected)

	if b.CancelledBy != model.CancelledByProvider {
		t.Fatalf("expected cancelledBy provider, got %s", b.CancelledBy)
	}
}

func TestUpdateStatus_AdminCancelAttribution(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	// Админ не является стороной сделки и попадает в ветку provider.
	b = env.mustTransition(t, env.admin.ID, model.RoleAdmin, b.ID, model.BookingStatusCancelled)

	if b.CancelledBy != model.CancelledByProvider {
		t.Fatalf("expected admin cancellation to be recorded as provider, got %s", b.CancelledBy)
	}
}

func TestUpdateStatus_CancellationReason(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	b2, err := env.svc.UpdateStatus(context.Background(), env.customer.ID, model.RoleCustomer, b.ID, model.BookingStatusCancelled, "found another provider")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if b2.CancellationReason != "found another provider" {
		t.Fatalf("expected reason to be saved, got %q", b2.CancellationReason)
	}
}

func TestAddReview(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	env.mustComplete(t, b.ID)

	reviewed, err := env.svc.AddReview(context.Background(), env.customer.ID, b.ID, 5, "great work")
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	if reviewed.Rating == nil || *reviewed.Rating != 5 {
		t.Fatalf("expected rating 5, got %v", reviewed.Rating)
	}
	if reviewed.ReviewDate == nil {
		t.Fatalf("expected review date to be set")
	}

	var provider model.User
	if err := env.db.First(&provider, "id = ?", env.provider.ID).Error; err != nil {
		t.Fatalf("load provider: %v", err)
	}
	if provider.Rating != 5 || provider.TotalReviews != 1 {
		t.Fatalf("expected provider aggregate 5/1, got %v/%d", provider.Rating, provider.TotalReviews)
	}

	var offer model.Service
	if err := env.db.First(&offer, "id = ?", env.offer.ID).Error; err != nil {
		t.Fatalf("load service: %v", err)
	}
	if offer.Rating != 5 || offer.TotalReviews != 1 {
		t.Fatalf("expected service aggregate 5/1, got %v/%d", offer.Rating, offer.TotalReviews)
	}
}

func TestAddReview_OnlyOnce(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	env.mustComplete(t, b.ID)

	if _, err := env.svc.AddReview(context.Background(), env.customer.ID, b.ID, 5, ""); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := env.svc.AddReview(context.Background(), env.customer.ID, b.ID, 4, "")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on second review, got %v", err)
	}
}

func TestAddReview_NotCompleted(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)

	_, err := env.svc.AddReview(context.Background(), env.customer.ID, b.ID, 5, "")
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestAddReview_OnlyCustomer(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	env.mustComplete(t, b.ID)

	// Даже исполнитель по этому бронированию не может оставить отзыв.
	_, err := env.svc.AddReview(context.Background(), env.provider.ID, b.ID, 5, "")
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAddReview_AggregateMean(t *testing.T) {
	env := newBookingTestEnv(t)

	first := env.mustCreate(t)
	env.mustComplete(t, first.ID)
	if _, err := env.svc.AddReview(context.Background(), env.customer.ID, first.ID, 5, ""); err != nil {
		t.Fatalf("first review: %v", err)
	}

	second := env.mustCreate(t)
	env.mustComplete(t, second.ID)
	if _, err := env.svc.AddReview(context.Background(), env.customer.ID, second.ID, 3, ""); err != nil {
		t.Fatalf("second review: %v", err)
	}

	var provider model.User
	if err := env.db.First(&provider, "id = ?", env.provider.ID).Error; err != nil {
		t.Fatalf("load provider: %v", err)
	}
	if provider.Rating != 4 || provider.TotalReviews != 2 {
		t.Fatalf("expected provider aggregate 4/2, got %v/%d", provider.Rating, provider.TotalReviews)
	}
}

func TestList_ScopedByRole(t *testing.T) {
	env := newBookingTestEnv(t)

	env.mustCreate(t)
	env.mustCreate(t)

	other := &model.User{
		FirstName: "Olga", LastName: "Other",
		Email: "olga@example.com", PasswordHash: "x",
		Role: model.RoleCustomer, IsActive: true,
	}
	if err := env.db.Create(other).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	mine, err := env.svc.List(context.Background(), env.customer.ID, model.RoleCustomer, "", 1, 10)
	if err != nil {
		t.Fatalf("list as customer: %v", err)
	}
	if mine.Total != 2 {
		t.Fatalf("expected 2 bookings for customer, got %d", mine.Total)
	}

	theirs, err := env.svc.List(context.Background(), other.ID, model.RoleCustomer, "", 1, 10)
	if err != nil {
		t.Fatalf("list as other customer: %v", err)
	}
	if theirs.Total != 0 {
		t.Fatalf("expected empty scope for unrelated customer, got %d", theirs.Total)
	}

	all, err := env.svc.List(context.Background(), env.admin.ID, model.RoleAdmin, "", 1, 10)
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("expected admin to see all bookings, got %d", all.Total)
	}
}

func TestList_StatusFilter(t *testing.T) {
	env := newBookingTestEnv(t)

	b := env.mustCreate(t)
	env.mustCreate(t)
	env.mustTransition(t, env.provider.ID, model.RoleProvider, b.ID, model.BookingStatusConfirmed)

	page, err := env.svc.List(context.Background(), env.customer.ID, model.RoleCustomer, model.BookingStatusConfirmed, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 confirmed booking, got %d", page.Total)
	}

	_, err = env.svc.List(context.Background(), env.customer.ID, model.RoleCustomer, "archived", 1, 10)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation for unknown status, got %v", err)
	}
}

func TestStats_Empty(t *testing.T) {
	env := newBookingTestEnv(t)

	stats, err := env.svc.Stats(context.Background(), env.customer.ID, model.RoleCustomer)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 0 || stats.CompletionRate != 0 {
		t.Fatalf("expected zero stats, got total=%d rate=%v", stats.Total, stats.CompletionRate)
	}
	// Все шесть статусов присутствуют с нулями.
	if len(stats.Counts) != 6 {
		t.Fatalf("expected all statuses in counts, got %d", len(stats.Counts))
	}
}

func TestStats_CompletionRate(t *testing.T) {
	env := newBookingTestEnv(t)

	first := env.mustCreate(t)
	env.mustComplete(t, first.ID)

	second := env.mustCreate(t)
	env.mustTransition(t, env.customer.ID, model.RoleCustomer, second.ID, model.BookingStatusCancelled)

	stats, err := env.svc.Stats(context.Background(), env.provider.ID, model.RoleProvider)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Completed != 1 {
		t.Fatalf("expected 2 total / 1 completed, got %d/%d", stats.Total, stats.Completed)
	}
	if stats.CompletionRate != 50 {
		t.Fatalf("expected completion rate 50, got %v", stats.CompletionRate)
	}
}
