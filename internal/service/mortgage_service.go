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

type MortgageService interface {
	AddDetails(ctx context.Context, user *domain.User, req *domain.MortgageDetailsRequest) error
	GetDetails(ctx context.Context, user *domain.User) (*domain.MortgageData, error)
}

type mortgageService struct {
	userRepo repository.UserRepository
	eventBus events.Publisher
}

func NewMortgageService(userRepo repository.UserRepository, eventBus events.Publisher) MortgageService {
	return &mortgageService{
		userRepo: userRepo,
		eventBus: eventBus,
	}
}

// AddDetails appends either an existing-mortgage entry or a new-mortgage
// request to the user's record, depending on the HasMortgage branch.
func (s *mortgageService) AddDetails(ctx context.Context, user *domain.User, req *domain.MortgageDetailsRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.HasMortgage {
		entry := &domain.MortgageEntry{
			ID:               uuid.NewString(),
			HasMortgage:      true,
			PaymentMethod:    req.PaymentMethod,
			EstPropertyValue: req.EstPropertyValue,
			MortgageAmount:   req.MortgageAmount,
			LoanToValue:      req.LoanToValue1,
			FurtherAdvance:   req.FurtherAdvance,
			MortgageType:     req.MortgageType,
			ProductRateType:  req.ProductRateType,
			RenewalDate:      req.RenewalDate,
			Reference:        req.Reference1,
		}
		if err := s.userRepo.AddMortgageEntry(ctx, user.ID, entry); err != nil {
			return fmt.Errorf("failed to add mortgage entry: %w", err)
		}
	} else {
		request := &domain.NewMortgageRequest{
			ID:                   uuid.NewString(),
			IsLookingForMortgage: req.IsLookingForMortgage,
			FoundProperty:        req.FoundProperty,
			NewMortgageType:      req.NewMortgageType,
			DepositAmount:        req.DepositAmount,
			PurchasePrice:        req.PurchasePrice,
			LoanToValue:          req.LoanToValue2,
			LoanAmount:           req.LoanAmount,
			SourceOfDeposit:      req.SourceOfDeposit,
			LoanTerm:             req.LoanTerm,
			PaymentMethod:        req.NewPaymentMethod,
			Reference:            req.Reference2,
		}
		if err := s.userRepo.AddNewMortgageRequest(ctx, user.ID, request); err != nil {
			return fmt.Errorf("failed to add mortgage request: %w", err)
		}
	}

	if err := s.eventBus.Publish(ctx, events.MortgageSubmitted, events.MortgageSubmittedEvent{
		UserID:      user.ID,
		HasMortgage: req.HasMortgage,
		SubmittedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish mortgage event", "error", err)
	}

	return nil
}

func (s *mortgageService) GetDetails(ctx context.Context, user *domain.User) (*domain.MortgageData, error) {
	fresh, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if fresh == nil {
		return nil, domain.ErrAccountNotFound
	}

	return &domain.MortgageData{
		MortgageDetails:     fresh.MortgageDetails,
		NewMortgageRequests: fresh.NewMortgageRequests,
	}, nil
}
