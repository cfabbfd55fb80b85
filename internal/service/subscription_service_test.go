package service

import (
	"context"
	"testing"
	"time"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"
	"merchant-ledger/internal/core/ports/mocks"
	"merchant-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type enrollmentFixture struct {
	svc   ports.SubscriptionEnrollment
	subs  *mocks.MockSubscriptionRepository
	plans *mocks.MockPlanRepository
}

func newEnrollmentForTest(t *testing.T) enrollmentFixture {
	ctrl := gomock.NewController(t)
	subs := mocks.NewMockSubscriptionRepository(ctrl)
	plans := mocks.NewMockPlanRepository(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testTime).AnyTimes()
	audit := mocks.NewMockAuditService(ctrl)
	audit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	svc := NewSubscriptionEnrollment(subs, plans, nil, clock, audit, zerolog.Nop())
	return enrollmentFixture{svc: svc, subs: subs, plans: plans}
}

func activeSubscription(plan *domain.SubscriptionPlan, subscriber domain.Identity) *domain.UserSubscription {
	return &domain.UserSubscription{
		Address:         domain.SubscriptionAddress(plan.Address, subscriber),
		Subscriber:      subscriber,
		Plan:            plan.Address,
		MerchantOwner:   plan.MerchantOwner,
		StartDate:       testTime.Add(-24 * time.Hour),
		NextBillingDate: testTime.Add(6 * 24 * time.Hour),
		IsActive:        true,
		SupportedTokens: tokenList(1),
	}
}

func TestEnrollment_Enroll_Success(t *testing.T) {
	f := newEnrollmentForTest(t)
	owner := ident(1)
	subscriber := ident(2)
	plan := activePlan(owner, "Pro")

	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(plan, nil)

	var created *domain.UserSubscription
	f.subs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sub *domain.UserSubscription) error {
			created = sub
			return nil
		})

	next := testTime.Add(30 * 24 * time.Hour)
	sub, err := f.svc.Enroll(context.Background(), ports.EnrollRequest{
		Caller:          subscriber,
		Plan:            plan.Address,
		NextBillingDate: next,
		SupportedTokens: tokenList(3),
	})
	require.NoError(t, err)
	require.Same(t, created, sub)

	assert.Equal(t, domain.SubscriptionAddress(plan.Address, subscriber), sub.Address)
	assert.Equal(t, subscriber, sub.Subscriber)
	assert.Equal(t, owner, sub.MerchantOwner)
	assert.Equal(t, testTime, sub.StartDate)
	assert.Equal(t, next, sub.NextBillingDate)
	assert.True(t, sub.IsActive)
	assert.Nil(t, sub.CanceledAt)
}

func TestEnrollment_Enroll_PlanInactive(t *testing.T) {
	f := newEnrollmentForTest(t)
	plan := activePlan(ident(1), "Pro")
	plan.IsActive = false

	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(plan, nil)

	_, err := f.svc.Enroll(context.Background(), ports.EnrollRequest{
		Caller:          ident(2),
		Plan:            plan.Address,
		SupportedTokens: tokenList(1),
	})
	assertAppError(t, err, apperror.KindPrecondition, "PLAN_006")
}

func TestEnrollment_Enroll_PlanNotFound(t *testing.T) {
	f := newEnrollmentForTest(t)
	plan := activePlan(ident(1), "Pro")

	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(nil, nil)

	_, err := f.svc.Enroll(context.Background(), ports.EnrollRequest{
		Caller:          ident(2),
		Plan:            plan.Address,
		SupportedTokens: tokenList(1),
	})
	assertAppError(t, err, apperror.KindNotFound, "PLAN_004")
}

func TestEnrollment_Enroll_TokenValidation(t *testing.T) {
	tests := []struct {
		name   string
		tokens []domain.TokenID
	}{
		{"empty list", nil},
		{"over limit", tokenList(domain.MaxSupportedTokens + 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEnrollmentForTest(t)

			_, err := f.svc.Enroll(context.Background(), ports.EnrollRequest{
				Caller:          ident(2),
				Plan:            activePlan(ident(1), "Pro").Address,
				SupportedTokens: tt.tokens,
			})
			assertAppError(t, err, apperror.KindValidation, "PLAN_007")
		})
	}
}

func TestEnrollment_Enroll_Duplicate(t *testing.T) {
	f := newEnrollmentForTest(t)
	plan := activePlan(ident(1), "Pro")

	f.plans.EXPECT().Get(gomock.Any(), plan.Address).Return(plan, nil)
	f.subs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ports.ErrAlreadyExists)

	_, err := f.svc.Enroll(context.Background(), ports.EnrollRequest{
		Caller:          ident(2),
		Plan:            plan.Address,
		SupportedTokens: tokenList(1),
	})
	assertAppError(t, err, apperror.KindDuplicate, "SUB_001")
}

func TestEnrollment_Cancel_Success(t *testing.T) {
	f := newEnrollmentForTest(t)
	subscriber := ident(2)
	sub := activeSubscription(activePlan(ident(1), "Pro"), subscriber)

	f.subs.EXPECT().Get(gomock.Any(), sub.Address).Return(sub, nil)
	f.subs.EXPECT().Cancel(gomock.Any(), sub.Address, testTime).Return(nil)

	canceled, err := f.svc.Cancel(context.Background(), sub.Address, subscriber)
	require.NoError(t, err)

	assert.False(t, canceled.IsActive)
	require.NotNil(t, canceled.CanceledAt)
	assert.Equal(t, testTime, *canceled.CanceledAt)
	assert.True(t, canceled.Canceled())
}

func TestEnrollment_Cancel_WrongCaller(t *testing.T) {
	f := newEnrollmentForTest(t)
	sub := activeSubscription(activePlan(ident(1), "Pro"), ident(2))

	f.subs.EXPECT().Get(gomock.Any(), sub.Address).Return(sub, nil)

	_, err := f.svc.Cancel(context.Background(), sub.Address, ident(9))
	assertAppError(t, err, apperror.KindUnauthorized, "SUB_003")
}

func TestEnrollment_Cancel_AlreadyCanceled(t *testing.T) {
	f := newEnrollmentForTest(t)
	subscriber := ident(2)
	sub := activeSubscription(activePlan(ident(1), "Pro"), subscriber)
	earlier := testTime.Add(-time.Hour)
	sub.IsActive = false
	sub.CanceledAt = &earlier

	f.subs.EXPECT().Get(gomock.Any(), sub.Address).Return(sub, nil)

	_, err := f.svc.Cancel(context.Background(), sub.Address, subscriber)
	assertAppError(t, err, apperror.KindPrecondition, "SUB_004")
}

func TestEnrollment_Cancel_NotFound(t *testing.T) {
	f := newEnrollmentForTest(t)
	sub := activeSubscription(activePlan(ident(1), "Pro"), ident(2))

	f.subs.EXPECT().Get(gomock.Any(), sub.Address).Return(nil, nil)

	_, err := f.svc.Cancel(context.Background(), sub.Address, ident(2))
	assertAppError(t, err, apperror.KindNotFound, "SUB_002")
}

func TestEnrollment_Get_NotFound(t *testing.T) {
	f := newEnrollmentForTest(t)
	sub := activeSubscription(activePlan(ident(1), "Pro"), ident(2))

	f.subs.EXPECT().Get(gomock.Any(), sub.Address).Return(nil, nil)

	_, err := f.svc.Get(context.Background(), sub.Address)
	assertAppError(t, err, apperror.KindNotFound, "SUB_002")
}
