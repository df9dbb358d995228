package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/middleware"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	VerifyOTP(ctx context.Context, input dto.VerifyOTPInput) (*model.User, error)
	ResendOTP(ctx context.Context, email string) (time.Duration, error)
}

type authService struct {
	repo     repository.UserRepository
	otp      OTPService
	search   MemberSearch
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, otp OTPService, search MemberSearch, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:     repo,
		otp:      otp,
		search:   search,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register creates an unverified member and issues an OTP to their email.
func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	taken, err := s.repo.EmailOrPhoneTaken(ctx, input.Email, input.Phone, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email or phone already registered", apperror.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FullName:     input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         model.RoleMember,
		IsVerified:   false,
	}

	if err := s.repo.Create(ctx, user, &model.Profile{}); err != nil {
		return nil, err
	}

	ttl, err := s.otp.Issue(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		Message:   "Registration successful. OTP sent to email.",
		UserID:    user.ID,
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}

	if !user.IsVerified {
		return nil, fmt.Errorf("%w: user not verified", apperror.ErrForbidden)
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, input dto.VerifyOTPInput) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := s.otp.Verify(ctx, input.Email, input.OTP); err != nil {
		return nil, err
	}

	user.IsVerified = true
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Newly verified members become searchable; a failed index is not a
	// verification failure.
	if s.search != nil {
		if err := s.search.IndexMember(user); err != nil {
			logrus.WithError(err).Warn("failed to index verified member")
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) (time.Duration, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return 0, err
	}

	if user.IsVerified {
		return 0, fmt.Errorf("%w: user is already verified", apperror.ErrInvalidInput)
	}

	return s.otp.Resend(ctx, email)
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := middleware.Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
