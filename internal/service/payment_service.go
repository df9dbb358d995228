package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dream-society/unity-nest/internal/dto"
	"github.com/dream-society/unity-nest/internal/model"
	"github.com/dream-society/unity-nest/internal/repository"
	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService interface {
	Record(ctx context.Context, userID uuid.UUID, input dto.RecordPaymentInput) (*model.Payment, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
}

type paymentService struct {
	repo repository.PaymentRepository
}

func NewPaymentService(repo repository.PaymentRepository) PaymentService {
	return &paymentService{repo: repo}
}

func (s *paymentService) Record(ctx context.Context, userID uuid.UUID, input dto.RecordPaymentInput) (*model.Payment, error) {
	status := input.PaymentStatus
	if status == "" {
		status = model.PaymentStatusPending
	}

	payment := &model.Payment{
		UserID:        userID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: status,
		TransactionID: input.TransactionID,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: transaction already recorded", apperror.ErrDuplicate)
		}
		return nil, err
	}

	return payment, nil
}

func (s *paymentService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	payments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, nil
}
