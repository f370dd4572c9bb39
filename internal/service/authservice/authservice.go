package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GlebRadaev/afriart/internal/domain"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"go.uber.org/zap"
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type AdminRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
}

type TokenRepo interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Service struct {
	userRepo    UserRepo
	adminRepo   AdminRepo
	tokenRepo   TokenRepo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	tokenTTL    time.Duration
	now         func() time.Time
}

func New(userRepo UserRepo, adminRepo AdminRepo, tokenRepo TokenRepo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:    userRepo,
		adminRepo:   adminRepo,
		tokenRepo:   tokenRepo,
		hashService: hashService,
		jwtService:  jwtService,
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, req dto.RegisterRequestDTO) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("email", email))
		return nil, domain.ErrDuplicateEmail
	}
	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Phone:        strings.TrimSpace(req.Phone),
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			zap.L().Error("can't create user", zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("email", email))
	return newUser, nil
}

// Authenticate answers an unknown email and a wrong password the same way.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil || !s.hashService.ComparePassword(user.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("email", email))
	return user, nil
}

func (s *Service) AuthenticateAdmin(ctx context.Context, email, password string) (*domain.Admin, error) {
	email = normalizeEmail(email)
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		zap.L().Error("can't find admin", zap.Error(err))
		return nil, err
	}
	if admin == nil || !s.hashService.ComparePassword(admin.PasswordHash, password) {
		zap.L().Warn("invalid admin credentials", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}
	zap.L().Info("admin successfully authenticated", zap.String("email", email))
	return admin, nil
}

func (s *Service) GenerateToken(subjectID int, name string, isAdmin bool) (string, error) {
	expirationTime := s.now().Add(s.tokenTTL)

	token, err := s.jwtService.GenerateJWT(subjectID, name, isAdmin, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}

// Logout denylists the token id for the rest of the token's lifetime.
func (s *Service) Logout(ctx context.Context, principal auth.Principal) error {
	ttl := principal.ExpiresAt.Sub(s.now())
	if err := s.tokenRepo.Revoke(ctx, principal.TokenID, ttl); err != nil {
		return err
	}
	zap.L().Info("token revoked", zap.Int("subjectID", principal.SubjectID), zap.Bool("admin", principal.IsAdmin))
	return nil
}

// IsRevoked lets the auth middleware consult the denylist.
func (s *Service) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.tokenRepo.IsRevoked(ctx, tokenID)
}

func (s *Service) hashPassword(password string) (string, error) {
	hashed, err := s.hashService.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return "", err
	}
	return hashed, nil
}

func (s *Service) CreateAdmin(ctx context.Context, req dto.CreateAdminDTO) (*domain.Admin, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	existing, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}
	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	admin, err := s.adminRepo.Create(ctx, &domain.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("admin created", zap.String("email", email))
	return admin, nil
}
