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

type subscriptionCatalog struct {
	plans     ports.PlanRepository
	merchants ports.MerchantRepository
	cache     ports.RecordCache
	clock     ports.Clock
	audit     ports.AuditService
	log       zerolog.Logger
}

// NewSubscriptionCatalog creates the subscription catalog service.
func NewSubscriptionCatalog(
	plans ports.PlanRepository,
	merchants ports.MerchantRepository,
	cache ports.RecordCache,
	clock ports.Clock,
	audit ports.AuditService,
	log zerolog.Logger,
) ports.SubscriptionCatalog {
	return &subscriptionCatalog{
		plans:     plans,
		merchants: merchants,
		cache:     cache,
		clock:     clock,
		audit:     audit,
		log:       log,
	}
}

// CreatePlan writes a new subscription plan under the caller's merchant.
// Plans are namespaced per merchant: the address derives from (name, owner),
// so a merchant cannot register the same plan name twice.
func (s *subscriptionCatalog) CreatePlan(ctx context.Context, req ports.CreatePlanRequest) (*domain.SubscriptionPlan, error) {
	if err := validatePlanDetails(req); err != nil {
		return nil, err
	}

	merchant, err := lookupMerchant(ctx, s.merchants, s.cache, s.log, req.MerchantOwner)
	if err != nil {
		return nil, err
	}
	if merchant.Owner != req.Caller {
		return nil, apperror.ErrUnauthorizedMerchantAccess()
	}
	if !merchant.IsActive {
		return nil, apperror.ErrMerchantInactive()
	}

	plan := &domain.SubscriptionPlan{
		Address:         domain.PlanAddress(req.Name, merchant.Owner),
		Name:            req.Name,
		Price:           req.Price,
		Token:           domain.NativeToken,
		BillingCycle:    req.BillingCycle,
		IsActive:        req.IsActive,
		MerchantOwner:   merchant.Owner,
		SupportedTokens: req.SupportedTokens,
		CreatedAt:       s.clock.Now(),
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return nil, apperror.ErrPlanAlreadyExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create plan: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.SetPlan(ctx, plan); err != nil {
			s.log.Warn().Err(err).Str("address", plan.Address.String()).Msg("plan cache write failed")
		}
	}

	s.audit.Record(ctx, domain.AuditOpCreatePlan, req.Caller, plan.Address)
	s.log.Info().
		Str("address", plan.Address.String()).
		Str("merchant", plan.MerchantOwner.String()).
		Str("name", plan.Name).
		Bool("active", plan.IsActive).
		Msg("subscription plan created")

	return plan, nil
}

// SetPlanActive overwrites a plan's activation flag. Only the owning merchant
// identity may do so. Setting the current value again succeeds.
func (s *subscriptionCatalog) SetPlanActive(ctx context.Context, addr domain.Address, active bool, caller domain.Identity) (*domain.SubscriptionPlan, error) {
	// Ownership is checked against stored state, so read the repository
	// directly rather than a possibly stale cache entry.
	plan, err := s.plans.Get(ctx, addr)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get plan: %w", err))
	}
	if plan == nil {
		return nil, apperror.ErrPlanNotFound()
	}
	if plan.MerchantOwner != caller {
		return nil, apperror.ErrUnauthorizedPlanAccess()
	}

	if err := s.plans.SetActive(ctx, addr, active); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("set plan active: %w", err))
	}
	plan.IsActive = active

	if s.cache != nil {
		if err := s.cache.DeletePlan(ctx, addr); err != nil {
			s.log.Warn().Err(err).Str("address", addr.String()).Msg("plan cache invalidation failed")
		}
	}

	s.audit.Record(ctx, domain.AuditOpSetPlanActive, caller, addr)
	s.log.Info().
		Str("address", addr.String()).
		Bool("active", active).
		Msg("subscription plan activation updated")

	return plan, nil
}

// GetPlan loads a plan by address through the record cache.
func (s *subscriptionCatalog) GetPlan(ctx context.Context, addr domain.Address) (*domain.SubscriptionPlan, error) {
	return lookupPlan(ctx, s.plans, s.cache, s.log, addr)
}

func validatePlanDetails(req ports.CreatePlanRequest) error {
	switch {
	case req.Name == "":
		return apperror.ErrInvalidPlanDetails("plan name is empty")
	case len(req.Name) > domain.MaxPlanNameLen:
		return apperror.ErrInvalidPlanDetails(fmt.Sprintf("plan name exceeds %d bytes", domain.MaxPlanNameLen))
	case req.Price == 0:
		return apperror.ErrInvalidPlanDetails("price must be positive")
	}
	if req.BillingCycle == 0 {
		return apperror.ErrInvalidBillingCycle()
	}
	return validateSupportedTokens(req.SupportedTokens)
}

func validateSupportedTokens(tokens []domain.TokenID) error {
	switch {
	case len(tokens) == 0:
		return apperror.ErrUnsupportedTokens("no supported tokens provided")
	case len(tokens) > domain.MaxSupportedTokens:
		return apperror.ErrUnsupportedTokens(fmt.Sprintf("more than %d entries", domain.MaxSupportedTokens))
	}
	return nil
}

// lookupPlan is the shared plan load: cache first, repository on miss.
func lookupPlan(
	ctx context.Context,
	repo ports.PlanRepository,
	cache ports.RecordCache,
	log zerolog.Logger,
	addr domain.Address,
) (*domain.SubscriptionPlan, error) {
	if cache != nil {
		plan, err := cache.GetPlan(ctx, addr)
		if err != nil {
			log.Warn().Err(err).Str("address", addr.String()).Msg("plan cache read failed, falling through to repository")
		}
		if plan != nil {
			return plan, nil
		}
	}

	plan, err := repo.Get(ctx, addr)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get plan: %w", err))
	}
	if plan == nil {
		return nil, apperror.ErrPlanNotFound()
	}

	if cache != nil {
		if err := cache.SetPlan(ctx, plan); err != nil {
			log.Warn().Err(err).Str("address", addr.String()).Msg("plan cache write failed")
		}
	}

	return plan, nil
}
