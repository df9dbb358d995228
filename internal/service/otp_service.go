package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Mailer delivers OTP codes. Transport is out of scope for this service;
// production wires an email provider, development logs the code.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

// LogMailer writes the code to the application log instead of sending it.
type LogMailer struct{}

func (LogMailer) SendOTP(_ context.Context, email, code string, ttl time.Duration) error {
	logrus.WithFields(logrus.Fields{
		"email":      email,
		"code":       code,
		"expires_in": ttl.String(),
	}).Info("OTP issued (log mailer)")
	return nil
}

type OTPService interface {
	// Issue generates a fresh code, stores it and hands it to the mailer.
	Issue(ctx context.Context, email string) (time.Duration, error)
	// Resend reissues a code, rate-limited per address.
	Resend(ctx context.Context, email string) (time.Duration, error)
	// Verify consumes the code. A used or expired code never verifies twice.
	Verify(ctx context.Context, email, code string) error
}

type otpService struct {
	rdb          *redis.Client
	mailer       Mailer
	ttl          time.Duration
	resendWindow time.Duration
}

func NewOTPService(rdb *redis.Client, mailer Mailer, ttl, resendWindow time.Duration) OTPService {
	return &otpService{
		rdb:          rdb,
		mailer:       mailer,
		ttl:          ttl,
		resendWindow: resendWindow,
	}
}

func (s *otpService) Issue(ctx context.Context, email string) (time.Duration, error) {
	code, err := generateCode()
	if err != nil {
		return 0, fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.rdb.Set(ctx, otpKey(email), code, s.ttl).Err(); err != nil {
		return 0, fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code, s.ttl); err != nil {
		return 0, err
	}

	return s.ttl, nil
}

func (s *otpService) Resend(ctx context.Context, email string) (time.Duration, error) {
	wasSet, err := s.rdb.SetNX(ctx, resendKey(email), "locked", s.resendWindow).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check resend limit: %w", err)
	}
	if !wasSet {
		return 0, apperror.ErrRateLimitExceeded
	}

	return s.Issue(ctx, email)
}

func (s *otpService) Verify(ctx context.Context, email, code string) error {
	stored, err := s.rdb.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: OTP expired or not issued", apperror.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read OTP: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return fmt.Errorf("%w: incorrect OTP", apperror.ErrInvalidInput)
	}

	_ = s.rdb.Del(ctx, otpKey(email)).Err()
	return nil
}

func otpKey(email string) string {
	return "otp:" + email
}

func resendKey(email string) string {
	return "otp_resend:" + email
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
