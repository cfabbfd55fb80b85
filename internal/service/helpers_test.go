package service

import (
	"testing"
	"time"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ident(b byte) domain.Identity {
	var id domain.Identity
	id[0] = b
	return id
}

func token(b byte) domain.TokenID {
	var t domain.TokenID
	t[0] = b
	return t
}

func tokenList(n int) []domain.TokenID {
	list := make([]domain.TokenID, n)
	for i := range list {
		list[i] = token(byte(i + 1))
	}
	return list
}

func activeMerchant(owner domain.Identity) *domain.Merchant {
	return &domain.Merchant{
		Address:         domain.MerchantAddress(owner),
		Name:            "Acme",
		WebURL:          "acme.example",
		Owner:           owner,
		IsActive:        true,
		CreatedAt:       testTime.Add(-24 * time.Hour),
		SupportedTokens: tokenList(2),
	}
}

func activePlan(owner domain.Identity, name string) *domain.SubscriptionPlan {
	return &domain.SubscriptionPlan{
		Address:         domain.PlanAddress(name, owner),
		Name:            name,
		Price:           1000,
		Token:           domain.NativeToken,
		BillingCycle:    30,
		IsActive:        true,
		MerchantOwner:   owner,
		SupportedTokens: tokenList(2),
		CreatedAt:       testTime.Add(-12 * time.Hour),
	}
}

func assertAppError(t *testing.T, err error, kind apperror.Kind, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, code, appErr.Code)
}
