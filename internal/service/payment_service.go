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

type paymentLedger struct {
	payments  ports.PaymentRepository
	merchants ports.MerchantRepository
	cache     ports.RecordCache
	clock     ports.Clock
	audit     ports.AuditService
	log       zerolog.Logger
}

// NewPaymentLedger creates the payment ledger service.
func NewPaymentLedger(
	payments ports.PaymentRepository,
	merchants ports.MerchantRepository,
	cache ports.RecordCache,
	clock ports.Clock,
	audit ports.AuditService,
	log zerolog.Logger,
) ports.PaymentLedger {
	return &paymentLedger{
		payments:  payments,
		merchants: merchants,
		cache:     cache,
		clock:     clock,
		audit:     audit,
		log:       log,
	}
}

// Record writes a payment attestation against an active merchant. The record
// address derives from the signature digest, so replaying the same
// transaction reference fails instead of overwriting.
func (s *paymentLedger) Record(ctx context.Context, req ports.RecordPaymentRequest) (*domain.Payment, error) {
	if err := validatePaymentDetails(req); err != nil {
		return nil, err
	}

	digest := domain.HashSignature(req.Signature)
	if !req.SignatureHash.IsZero() && req.SignatureHash != digest {
		return nil, apperror.ErrInvalidPaymentDetails("signature hash does not match signature")
	}

	merchant, err := lookupMerchant(ctx, s.merchants, s.cache, s.log, req.MerchantOwner)
	if err != nil {
		return nil, err
	}
	if !merchant.IsActive {
		return nil, apperror.ErrMerchantInactive()
	}

	// Only the native asset is recorded; the token argument is kept in the
	// call shape as a migration path for multi-asset support.
	payment := &domain.Payment{
		Address:       domain.PaymentAddress(digest),
		Signature:     req.Signature,
		SignatureHash: digest,
		Payer:         req.Caller,
		MerchantOwner: merchant.Owner,
		Amount:        req.Amount,
		Token:         domain.NativeToken,
		Status:        req.Status,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return nil, apperror.ErrPaymentAlreadyExists()
		}
		return nil, apperror.InternalError(fmt.Errorf("create payment: %w", err))
	}

	s.audit.Record(ctx, domain.AuditOpRecordPayment, req.Caller, payment.Address)
	s.log.Info().
		Str("address", payment.Address.String()).
		Str("payer", payment.Payer.String()).
		Uint64("amount", payment.Amount).
		Str("status", payment.Status.String()).
		Msg("payment recorded")

	return payment, nil
}

// Get loads a payment record by address.
func (s *paymentLedger) Get(ctx context.Context, addr domain.Address) (*domain.Payment, error) {
	payment, err := s.payments.Get(ctx, addr)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrPaymentNotFound()
	}
	return payment, nil
}

func validatePaymentDetails(req ports.RecordPaymentRequest) error {
	switch {
	case req.Signature == "":
		return apperror.ErrInvalidPaymentDetails("transaction signature is empty")
	case len(req.Signature) > domain.MaxPaymentSignatureLen:
		return apperror.ErrInvalidPaymentDetails(fmt.Sprintf("transaction signature exceeds %d bytes", domain.MaxPaymentSignatureLen))
	case req.Amount == 0:
		return apperror.ErrInvalidPaymentDetails("amount must be positive")
	case !req.Status.Valid():
		return apperror.ErrInvalidPaymentDetails(fmt.Sprintf("unknown status %d", req.Status))
	}
	if req.Amount > domain.MaxPaymentAmount {
		return apperror.ErrPaymentLimitReached()
	}
	return nil
}
