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

type merchantRegistry struct {
	merchants ports.MerchantRepository
	cache     ports.RecordCache
	clock     ports.Clock
	audit     ports.AuditService
	log       zerolog.Logger
}

// NewMerchantRegistry creates the merchant registry service. cache may be nil
// to disable the read-through record cache.
func NewMerchantRegistry(
	merchants ports.MerchantRepository,
	cache ports.RecordCache,
	clock ports.Clock,
	audit ports.AuditService,
	log zerolog.Logger,
) ports.MerchantRegistry {
	return &merchantRegistry{
		merchants: merchants,
		cache:     cache,
		clock:     clock,
		audit:     audit,
		log:       log,
	}
}

// Register writes a new merchant record owned by the caller. At most one
// merchant exists per identity: the record address is derived from the caller
// alone, so a second registration collides.
func (s *merchantRegistry) Register(ctx context.Context, req ports.RegisterMerchantRequest) (*domain.Merchant, error) {
	if err := validateMerchantDetails(req); err != nil {
		return nil, err
	}

	merchant := &domain.Merchant{
		Address:         domain.MerchantAddress(req.Caller),
		Name:            req.Name,
		WebURL:          req.WebURL,
		Owner:           req.Caller,
		IsActive:        true,
		CreatedAt:       s.clock.Now(),
		SupportedTokens: req.SupportedTokens,
	}

	if err := s.merchants.Create(ctx, merchant); err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return nil, apperror.ErrMerchantAlreadyRegistered()
		}
		return nil, apperror.InternalError(fmt.Errorf("create merchant: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.SetMerchant(ctx, merchant); err != nil {
			s.log.Warn().Err(err).Str("address", merchant.Address.String()).Msg("merchant cache write failed")
		}
	}

	s.audit.Record(ctx, domain.AuditOpRegisterMerchant, req.Caller, merchant.Address)
	s.log.Info().
		Str("address", merchant.Address.String()).
		Str("owner", merchant.Owner.String()).
		Msg("merchant registered")

	return merchant, nil
}

// Get loads the merchant record owned by an identity.
func (s *merchantRegistry) Get(ctx context.Context, owner domain.Identity) (*domain.Merchant, error) {
	return lookupMerchant(ctx, s.merchants, s.cache, s.log, owner)
}

func validateMerchantDetails(req ports.RegisterMerchantRequest) error {
	switch {
	case req.Name == "":
		return apperror.ErrInvalidMerchantDetails("name is empty")
	case len(req.Name) > domain.MaxMerchantNameLen:
		return apperror.ErrInvalidMerchantDetails(fmt.Sprintf("name exceeds %d bytes", domain.MaxMerchantNameLen))
	case req.WebURL == "":
		return apperror.ErrInvalidMerchantDetails("web URL is empty")
	case len(req.WebURL) > domain.MaxMerchantWebURLLen:
		return apperror.ErrInvalidMerchantDetails(fmt.Sprintf("web URL exceeds %d bytes", domain.MaxMerchantWebURLLen))
	case len(req.SupportedTokens) == 0:
		return apperror.ErrInvalidMerchantDetails("supported token list is empty")
	case len(req.SupportedTokens) > domain.MaxSupportedTokens:
		return apperror.ErrInvalidMerchantDetails(fmt.Sprintf("supported token list exceeds %d entries", domain.MaxSupportedTokens))
	}
	return nil
}

// lookupMerchant is the shared hot-path merchant load: cache first, repository
// on miss, cache errors tolerated.
func lookupMerchant(
	ctx context.Context,
	repo ports.MerchantRepository,
	cache ports.RecordCache,
	log zerolog.Logger,
	owner domain.Identity,
) (*domain.Merchant, error) {
	addr := domain.MerchantAddress(owner)

	if cache != nil {
		merchant, err := cache.GetMerchant(ctx, addr)
		if err != nil {
			log.Warn().Err(err).Str("address", addr.String()).Msg("merchant cache read failed, falling through to repository")
		}
		if merchant != nil {
			return merchant, nil
		}
	}

	merchant, err := repo.Get(ctx, addr)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrMerchantNotFound()
	}

	if cache != nil {
		if err := cache.SetMerchant(ctx, merchant); err != nil {
			log.Warn().Err(err).Str("address", addr.String()).Msg("merchant cache write failed")
		}
	}

	return merchant, nil
}
