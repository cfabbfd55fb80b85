package service

import (
	"context"
	"strings"
	"testing"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"
	"merchant-ledger/internal/core/ports/mocks"
	"merchant-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type catalogFixture struct {
	svc       ports.SubscriptionCatalog
	plans     *mocks.MockPlanRepository
	merchants *mocks.MockMerchantRepository
}

func newCatalogForTest(t *testing.T) catalogFixture {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanRepository(ctrl)
	merchants := mocks.NewMockMerchantRepository(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testTime).AnyTimes()
	audit := mocks.NewMockAuditService(ctrl)
	audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	svc := NewSubscriptionCatalog(plans, merchants, nil, clock, audit, zerolog.Nop())
	return catalogFixture{svc: svc, plans: plans, merchants: merchants}
}

func validPlanRequest(owner domain.Identity) ports.CreatePlanRequest {
	return ports.CreatePlanRequest{
		Caller:          owner,
		MerchantOwner:   owner,
		Name:            "Pro",
		Price:           1000,
		BillingCycle:    30,
		IsActive:        true,
		SupportedTokens: tokenList(2),
	}
}

func TestCatalog_CreatePlan_Success(t *testing.T) {
	f := newCatalogForTest(t)
	owner := ident(1)
	merchant := activeMerchant(owner)

	f.merchants.EXPECT().Get(gomock.Any(), merchant.Address).Return(merchant, nil)
	f.plans.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	req := validPlanRequest(owner)
	req.Token = token(5) // Discarded in favor of the native sentinel.

	plan, err := f.svc.CreatePlan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.PlanAddress("Pro", owner), plan.Address)
	assert.Equal(t, owner, plan.MerchantOwner)
	assert.Equal(t, domain.NativeToken, plan.Token)
	assert.True(t, plan.IsActive)
	assert.Equal(t, testTime, plan.CreatedAt)
}

func TestCatalog_CreatePlan_CallerNotOwner(t *testing.T) {
	f := newCatalogForTest(t)
	owner := ident(1)
	merchant := activeMerchant(owner)

	f.merchants.EXPECT().Get(gomock.Any(), merchant.Address).Return(merchant, nil)

	req := validPlanRequest(owner)
	req.Caller = ident(9)

	_, err := f.svc.CreatePlan(context.Background(), req)
	assertAppError(t, err, apperror.KindUnauthorized, "MER_004")
}

func TestCatalog_CreatePlan_MerchantInactive(t *testing.T) {
	f := newCatalogForTest(t)
	owner := ident(1)
	merchant := activeMerchant(owner)
	merchant.IsActive = false

	f.merchants.EXPECT().Get(gomock.Any(), merchant.Address).Return(merchant, nil)

	_, err := f.svc.CreatePlan(context.Background(), validPlanRequest(owner))
	assertAppError(t, err, apperror.KindPrecondition, "MER_005")
}

func TestCatalog_CreatePlan_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ports.CreatePlanRequest)
		kind   apperror.Kind
		code   string
	}{
		{"empty name", func(r *ports.CreatePlanRequest) { r.Name = "" }, apperror.KindValidation, "PLAN_002"},
		{"oversize name", func(r *ports.CreatePlanRequest) { r.Name = strings.Repeat("p", domain.MaxPlanNameLen+1) }, apperror.KindValidation, "PLAN_002"},
		{"zero price", func(r *ports.CreatePlanRequest) { r.Price = 0 }, apperror.KindValidation, "PLAN_002"},
		{"zero billing cycle", func(r *ports.CreatePlanRequest) { r.BillingCycle = 0 }, apperror.KindValidation, "PLAN_003"},
		{"no supported tokens", func(r *ports.CreatePlanRequest) { r.SupportedTokens = nil }, apperror.KindValidation, "PLAN_007"},
		{"too many supported tokens", func(r *ports.CreatePlanRequest) {
			r.SupportedTokens = tokenList(domain.MaxSupportedTokens + 1)
		}, apperror.KindValidation, "PLAN_007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogForTest(t)
			req := validPlanRequest(ident(1))
			tt.mutate(&req)

			_, err := f.svc.CreatePlan(context.Background(), req)
			assertAppError(t, err, tt.kind, tt.code)
		})
	}
}

func TestCatalog_CreatePlan_DuplicateName(t *testing.T) {
	f := newCatalogForTest(t)
	owner := ident(1)
	merchant := activeMerchant(owner)

	f.merchants.EXPECT().Get(gomock.Any(), merchant.Address).Return(merchant, nil)
	f.plans.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ports.ErrAlreadyExists)

	_, err := f.svc.CreatePlan(context.Background(), validPlanRequest(owner))
	assertAppError(t, err, apperror.KindDuplicate, "PLAN_001")
}

func TestCatalog_SetPlanActive_Success(t *testing.T) {
	f := newCatalogForTest(t)
	owner := ident(1)
	plan := activePlan(owner, "Pro")

	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(plan, nil)
	f.plans.EXPECT().SetActive(gomock.Any(), plan.Address, false).Return(nil)

	updated, err := f.svc.SetPlanActive(context.Background(), plan.Address, false, owner)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestCatalog_SetPlanActive_SameValueSucceeds(t *testing.T) {
	f := newCatalogForTest(t)
	owner := ident(1)
	plan := activePlan(owner, "Pro")

	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(plan, nil)
	f.plans.EXPECT().SetActive(gomock.Any(), plan.Address, true).Return(nil)

	updated, err := f.svc.SetPlanActive(context.Background(), plan.Address, true, owner)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestCatalog_SetPlanActive_Unauthorized(t *testing.T) {
	f := newCatalogForTest(t)
	plan := activePlan(ident(1), "Pro")

	// No SetActive expectation: an unauthorized caller must not mutate.
	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(plan, nil)

	_, err := f.svc.SetPlanActive(context.Background(), plan.Address, false, ident(9))
	assertAppError(t, err, apperror.KindUnauthorized, "PLAN_005")
}

func TestCatalog_SetPlanActive_NotFound(t *testing.T) {
	f := newCatalogForTest(t)
	plan := activePlan(ident(1), "Pro")

	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(nil, nil)

	_, err := f.svc.SetPlanActive(context.Background(), plan.Address, false, ident(1))
	assertAppError(t, err, apperror.KindNotFound, "PLAN_004")
}

func TestCatalog_SetPlanActive_InvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanRepository(ctrl)
	merchants := mocks.NewMockMerchantRepository(ctrl)
	clock := mocks.NewMockClock(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	cache := mocks.NewMockRecordCache(ctrl)

	owner := ident(1)
	plan := activePlan(owner, "Pro")

	plans.EXPECT().Get(gomock.Any(), plan.Address).Return(plan, nil)
	plans.EXPECT().SetActive(gomock.Any(), plan.Address, false).Return(nil)
	cache.EXPECT().DeletePlan(gomock.Any(), plan.Address).Return(nil)

	svc := NewSubscriptionCatalog(plans, merchants, cache, clock, audit, zerolog.Nop())

	_, err := svc.SetPlanActive(context.Background(), plan.Address, false, owner)
	require.NoError(t, err)
}
