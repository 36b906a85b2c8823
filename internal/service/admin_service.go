package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
)

// AdminService — административные выборки и переключатели активности.
type AdminService struct {
	userRepo    repository.UserRepository
	serviceRepo repository.ServiceRepository
	bookingRepo repository.BookingRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	bookingRepo repository.BookingRepository,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		bookingRepo: bookingRepo,
	}
}

// PlatformStats — сводка по всей платформе.
type PlatformStats struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalServices int64   `json:"totalServices"`
	TotalBookings int64   `json:"totalBookings"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

func requireAdmin(role model.Role) error {
	if role != model.RoleAdmin {
		return apperr.Forbidden("admin access required")
	}
	return nil
}

func (s *AdminService) Stats(ctx context.Context, role model.Role) (PlatformStats, error) {
	var zero PlatformStats
	if err := requireAdmin(role); err != nil {
		return zero, err
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return zero, apperr.Internal("count users", err)
	}
	services, err := s.serviceRepo.Count(ctx)
	if err != nil {
		return zero, apperr.Internal("count services", err)
	}
	bookings, err := s.bookingRepo.Count(ctx)
	if err != nil {
		return zero, apperr.Internal("count bookings", err)
	}
	revenue, err := s.bookingRepo.TotalRevenue(ctx)
	if err != nil {
		return zero, apperr.Internal("sum revenue", err)
	}

	return PlatformStats{
		TotalUsers:    users,
		TotalServices: services,
		TotalBookings: bookings,
		TotalRevenue:  revenue,
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context, role model.Role, filterRole model.Role) ([]model.User, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	if filterRole != "" && !filterRole.Valid() {
		return nil, apperr.Validation("unknown role %q", filterRole)
	}
	users, err := s.userRepo.List(ctx, filterRole)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	return users, nil
}

func (s *AdminService) SetUserActive(ctx context.Context, role model.Role, userID uuid.UUID, active bool) error {
	if err := requireAdmin(role); err != nil {
		return err
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return apperr.Internal("set user active", err)
	}
	return nil
}

func (s *AdminService) ListServices(ctx context.Context, role model.Role) ([]model.Service, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	services, _, err := s.serviceRepo.List(ctx, repository.ServiceFilter{IncludeInactive: true}, 0, 0)
	if err != nil {
		return nil, apperr.Internal("list services", err)
	}
	return services, nil
}

func (s *AdminService) SetServiceActive(ctx context.Context, role model.Role, serviceID uuid.UUID, active bool) error {
	if err := requireAdmin(role); err != nil {
		return err
	}
	if err := s.serviceRepo.SetActive(ctx, serviceID, active); err != nil {
		return apperr.Internal("set service active", err)
	}
	return nil
}

func (s *AdminService) ListBookings(ctx context.Context, role model.Role) ([]model.Booking, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	bookings, _, err := s.bookingRepo.List(ctx, repository.BookingFilter{}, 0, 0)
	if err != nil {
		return nil, apperr.Internal("list bookings", err)
	}
	return bookings, nil
}
