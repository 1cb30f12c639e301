package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/gauravnehare1411/introducer-app-backend/internal/repository"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/events"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/logger"
	"github.com/google/uuid"
)

type ReferralService interface {
	Submit(ctx context.Context, user *domain.User, req *domain.CreateReferralRequest) (*domain.Referral, error)
	ListMine(ctx context.Context, user *domain.User) ([]domain.Referral, error)
	ListByReferralID(ctx context.Context, referralID string) ([]domain.Referral, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type referralService struct {
	referralRepo repository.ReferralRepository
	eventBus     events.Publisher
}

func NewReferralService(referralRepo repository.ReferralRepository, eventBus events.Publisher) ReferralService {
	return &referralService{
		referralRepo: referralRepo,
		eventBus:     eventBus,
	}
}

// Submit records a lead attributed to the submitting user's referral ID.
func (s *referralService) Submit(ctx context.Context, user *domain.User, req *domain.CreateReferralRequest) (*domain.Referral, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	referral := &domain.Referral{
		ID:            uuid.NewString(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ReferralPhone: req.ReferralPhone,
		ReferralEmail: req.ReferralEmail,
		Purpose:       req.Purpose,
		Comment:       req.Comment,
		ReferralID:    user.ReferralID,
		Status:        domain.ReferralPending,
		CreatedAt:     time.Now(),
	}

	if err := s.referralRepo.Insert(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to insert referral: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.ReferralSubmitted, events.ReferralSubmittedEvent{
		ReferralID:    referral.ReferralID,
		ReferralEmail: referral.ReferralEmail,
		Purpose:       referral.Purpose,
		SubmittedAt:   referral.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish referral event", "error", err)
	}

	return referral, nil
}

func (s *referralService) ListMine(ctx context.Context, user *domain.User) ([]domain.Referral, error) {
	return s.ListByReferralID(ctx, user.ReferralID)
}

func (s *referralService) ListByReferralID(ctx context.Context, referralID string) ([]domain.Referral, error) {
	referrals, err := s.referralRepo.ListByReferralID(ctx, referralID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return referrals, nil
}

func (s *referralService) UpdateStatus(ctx context.Context, id, status string) error {
	if !domain.IsValidReferralStatus(status) {
		return fmt.Errorf("%w: unknown referral status %q", domain.ErrValidation, status)
	}

	modified, err := s.referralRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update referral status: %w", err)
	}
	if !modified {
		return domain.ErrReferralNotFound
	}

	if err := s.eventBus.Publish(ctx, events.ReferralStatusUpdated, events.ReferralStatusUpdatedEvent{
		ID:        id,
		Status:    status,
		UpdatedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish referral status event", "error", err)
	}

	return nil
}
