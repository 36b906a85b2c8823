package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fixlink/marketplace-core/internal/apperr"
	"github.com/fixlink/marketplace-core/internal/auth"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/repository"
)

// IdentityService — регистрация, вход и профиль пользователя.
type IdentityService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
}

func NewIdentityService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) *IdentityService {
	return &IdentityService{userRepo: userRepo, tokens: tokens}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      model.Role
	Phone     string
	Address   string
}

// Register создаёт пользователя и сразу выдаёт access-токен.
// Регистрация админов через публичный API закрыта.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FirstName == "" || in.LastName == "" {
		return nil, "", apperr.Validation("first name and last name are required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, "", apperr.Validation("a valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, "", apperr.Validation("password must be at least 6 characters")
	}
	if in.Role != model.RoleCustomer && in.Role != model.RoleProvider {
		return nil, "", apperr.Validation("role must be customer or provider")
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", apperr.Conflict("user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperr.Internal("lookup email", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperr.Internal("hash password", err)
	}

	u := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        in.Phone,
		Address:      in.Address,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, "", apperr.Internal("create user", err)
	}

	token, err := s.tokens.CreateAccessToken(u)
	if err != nil {
		return nil, "", apperr.Internal("issue token", err)
	}
	return u, token, nil
}

// Login проверяет учётные данные и выдаёт access-токен.
// Отсутствие пользователя и неверный пароль наружу неразличимы.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Validation("invalid email or password")
		}
		return nil, "", apperr.Internal("lookup user", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", apperr.Validation("invalid email or password")
	}
	if !u.IsActive {
		return nil, "", apperr.Forbidden("account is deactivated")
	}

	token, err := s.tokens.CreateAccessToken(u)
	if err != nil {
		return nil, "", apperr.Internal("issue token", err)
	}
	return u, token, nil
}

// GetProfile возвращает пользователя по ID.
func (s *IdentityService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("load user", err)
	}
	return u, nil
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Bio       *string
	Address   *string
}

// UpdateProfile обновляет только переданные поля.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil && len(*in.Bio) > 500 {
		return nil, apperr.Validation("bio must be at most 500 characters")
	}
	if in.FirstName != nil {
		if *in.FirstName == "" {
			return nil, apperr.Validation("first name must not be empty")
		}
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		if *in.LastName == "" {
			return nil, apperr.Validation("last name must not be empty")
		}
		u.LastName = *in.LastName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Address != nil {
		u.Address = *in.Address
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, apperr.Internal("update user", err)
	}
	return u, nil
}

// ListProviders — публичный список активных провайдеров.
func (s *IdentityService) ListProviders(ctx context.Context, minRating float64) ([]model.User, error) {
	providers, err := s.userRepo.ListProviders(ctx, minRating)
	if err != nil {
		return nil, apperr.Internal("list providers", err)
	}
	return providers, nil
}

// GetProvider — публичная карточка исполнителя. Неактивные и записи
// с другой ролью наружу неотличимы от несуществующих.
func (s *IdentityService) GetProvider(ctx context.Context, providerID uuid.UUID) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("provider not found")
		}
		return nil, apperr.Internal("load provider", err)
	}
	if u.Role != model.RoleProvider || !u.IsActive {
		return nil, apperr.NotFound("provider not found")
	}
	return u, nil
}

// AddFavorite добавляет исполнителя в избранное пользователя.
// Повторное добавление — конфликт, в избранном только провайдеры.
func (s *IdentityService) AddFavorite(ctx context.Context, userID, providerID uuid.UUID) (*model.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	provider, err := s.userRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("provider not found")
		}
		return nil, apperr.Internal("load provider", err)
	}
	if provider.Role != model.RoleProvider {
		return nil, apperr.Validation("only providers can be added to favorites")
	}
	if u.HasFavorite(providerID) {
		return nil, apperr.Conflict("provider already in favorites")
	}

	u.Favorites = append(u.Favorites, providerID)
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, apperr.Internal("save favorites", err)
	}
	return u, nil
}

// RemoveFavorite убирает исполнителя из избранного.
func (s *IdentityService) RemoveFavorite(ctx context.Context, userID, providerID uuid.UUID) (*model.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasFavorite(providerID) {
		return nil, apperr.NotFound("provider is not in favorites")
	}

	kept := u.Favorites[:0]
	for _, id := range u.Favorites {
		if id != providerID {
			kept = append(kept, id)
		}
	}
	u.Favorites = kept

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, apperr.Internal("save favorites", err)
	}
	return u, nil
}

// ListFavorites возвращает записи избранных исполнителей.
// Удалённые из системы ID молча выпадают из выдачи.
func (s *IdentityService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]model.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorites, err := s.userRepo.GetByIDs(ctx, u.Favorites)
	if err != nil {
		return nil, apperr.Internal("load favorites", err)
	}
	return favorites, nil
}
