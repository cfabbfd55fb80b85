package service

import (
	"context"
	"errors"
	"fmt"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"
	"merchant-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

type subscriptionEnrollment struct {
	subs  ports.SubscriptionRepository
	plans ports.PlanRepository
	cache ports.RecordCache
	clock ports.Clock
	audit ports.AuditService
	log   zerolog.Logger
}

// NewSubscriptionEnrollment creates the enrollment service.
func NewSubscriptionEnrollment(
	subs ports.SubscriptionRepository,
	plans ports.PlanRepository,
	cache ports.RecordCache,
	clock ports.Clock,
	audit ports.AuditService,
	log zerolog.Logger,
) ports.SubscriptionEnrollment {
	return &subscriptionEnrollment{
		subs:  subs,
		plans: plans,
		cache: cache,
		clock: clock,
		audit: audit,
		log:   log,
	}
}

// Enroll writes a new subscription for the caller against an active plan.
// One enrollment exists per (plan, subscriber) pair, active or historical:
// the address persists through cancellation, so re-enrollment collides.
func (s *subscriptionEnrollment) Enroll(ctx context.Context, req ports.EnrollRequest) (*domain.UserSubscription, error) {
	if err := validateSupportedTokens(req.SupportedTokens); err != nil {
		return nil, err
	}

	plan, err := lookupPlan(ctx, s.plans, s.cache, s.log, req.Plan)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, apperror.ErrInactivePlan()
	}

	sub := &domain.UserSubscription{
		Address:         domain.SubscriptionAddress(plan.Address, req.Caller),
		Subscriber:      req.Caller,
		Plan:            plan.Address,
		MerchantOwner:   plan.MerchantOwner,
		StartDate:       s.clock.Now(),
		NextBillingDate: req.NextBillingDate,
		IsActive:        true,
		CanceledAt:      nil,
		SupportedTokens: req.SupportedTokens,
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return nil, apperror.ErrSubscriptionAlreadyExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create subscription: %w", err))
	}

	s.audit.Record(ctx, domain.AuditOpEnroll, req.Caller, sub.Address)
	s.log.Info().
		Str("address", sub.Address.String()).
		Str("subscriber", sub.Subscriber.String()).
		Str("plan", sub.Plan.String()).
		Msg("subscription enrolled")

	return sub, nil
}

// Cancel transitions a subscription from active to canceled. The transition
// is one-shot: canceling an already-canceled subscription fails rather than
// overwriting the original cancellation instant.
func (s *subscriptionEnrollment) Cancel(ctx context.Context, addr domain.Address, caller domain.Identity) (*domain.UserSubscription, error) {
	sub, err := s.subs.Get(ctx, addr)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get subscription: %w", err))
	}
	if sub == nil {
		return nil, apperror.ErrSubscriptionNotFound()
	}
	if sub.Subscriber != caller {
		return nil, apperror.ErrUnauthorizedSubscriptionAccess()
	}
	if !sub.IsActive {
		return nil, apperror.ErrSubscriptionAlreadyCanceled()
	}

	canceledAt := s.clock.Now()
	if err := s.subs.Cancel(ctx, addr, canceledAt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("cancel subscription: %w", err))
	}
	sub.IsActive = false
	sub.CanceledAt = &canceledAt

	s.audit.Record(ctx, domain.AuditOpCancel, caller, addr)
	s.log.Info().
		Str("address", addr.String()).
		Str("subscriber", caller.String()).
		Msg("subscription canceled")

	return sub, nil
}

// Get loads a subscription record by address.
func (s *subscriptionEnrollment) Get(ctx context.Context, addr domain.Address) (*domain.UserSubscription, error) {
	sub, err := s.subs.Get(ctx, addr)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get subscription: %w", err))
	}
	if sub == nil {
		return nil, apperror.ErrSubscriptionNotFound()
	}
	return sub, nil
}
