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

func newMerchantRegistryForTest(t *testing.T) (ports.MerchantRegistry, *mocks.MockMerchantRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockMerchantRepository(ctrl)
	mockClock := mocks.NewMockClock(ctrl)
	mockClock.EXPECT().Now().Return(testTime).AnyTimes()
	mockAudit := mocks.NewMockAuditService(ctrl)
	mockAudit.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	svc := NewMerchantRegistry(mockRepo, nil, mockClock, mockAudit, zerolog.Nop())
	return svc, mockRepo
}

func TestMerchantRegistry_Register_Success(t *testing.T) {
	svc, mockRepo := newMerchantRegistryForTest(t)
	caller := ident(1)

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	merchant, err := svc.Register(context.Background(), ports.RegisterMerchantRequest{
		Caller:          caller,
		Name:            "Acme",
		WebURL:          "acme.example",
		SupportedTokens: tokenList(2),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MerchantAddress(caller), merchant.Address)
	assert.Equal(t, caller, merchant.Owner)
	assert.True(t, merchant.IsActive)
	assert.Equal(t, testTime, merchant.CreatedAt)
}

func TestMerchantRegistry_Register_Duplicate(t *testing.T) {
	svc, mockRepo := newMerchantRegistryForTest(t)

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ports.ErrAlreadyExists)

	_, err := svc.Register(context.Background(), ports.RegisterMerchantRequest{
		Caller:          ident(1),
		Name:            "Acme",
		WebURL:          "acme.example",
		SupportedTokens: tokenList(1),
	})
	assertAppError(t, err, apperror.KindDuplicate, "MER_001")
}

func TestMerchantRegistry_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  ports.RegisterMerchantRequest
	}{
		{"empty name", ports.RegisterMerchantRequest{WebURL: "acme.example", SupportedTokens: tokenList(1)}},
		{"oversize name", ports.RegisterMerchantRequest{Name: strings.Repeat("a", domain.MaxMerchantNameLen+1), WebURL: "acme.example", SupportedTokens: tokenList(1)}},
		{"empty web url", ports.RegisterMerchantRequest{Name: "Acme", SupportedTokens: tokenList(1)}},
		{"oversize web url", ports.RegisterMerchantRequest{Name: "Acme", WebURL: strings.Repeat("u", domain.MaxMerchantWebURLLen+1), SupportedTokens: tokenList(1)}},
		{"no supported tokens", ports.RegisterMerchantRequest{Name: "Acme", WebURL: "acme.example"}},
		{"too many supported tokens", ports.RegisterMerchantRequest{Name: "Acme", WebURL: "acme.example", SupportedTokens: tokenList(domain.MaxSupportedTokens + 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newMerchantRegistryForTest(t)
			tt.req.Caller = ident(1)

			_, err := svc.Register(context.Background(), tt.req)
			assertAppError(t, err, apperror.KindValidation, "MER_002")
		})
	}
}

func TestMerchantRegistry_Get_NotFound(t *testing.T) {
	svc, mockRepo := newMerchantRegistryForTest(t)

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := svc.Get(context.Background(), ident(1))
	assertAppError(t, err, apperror.KindNotFound, "MER_003")
}

func TestMerchantRegistry_Get_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockMerchantRepository(ctrl)
	mockClock := mocks.NewMockClock(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	mockCache := mocks.NewMockRecordCache(ctrl)

	owner := ident(1)
	cached := activeMerchant(owner)
	mockCache.EXPECT().GetMerchant(gomock.Any(), cached.Address).Return(cached, nil)
	// No repository expectation: a cache hit must not touch storage.

	svc := NewMerchantRegistry(mockRepo, mockCache, mockClock, mockAudit, zerolog.Nop())

	merchant, err := svc.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, cached, merchant)
}

func TestMerchantRegistry_Get_CacheErrorFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockMerchantRepository(ctrl)
	mockClock := mocks.NewMockClock(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	mockCache := mocks.NewMockRecordCache(ctrl)

	owner := ident(1)
	stored := activeMerchant(owner)
	mockCache.EXPECT().GetMerchant(gomock.Any(), stored.Address).Return(nil, assert.AnError)
	mockRepo.EXPECT().Get(gomock.Any(), stored.Address).Return(stored, nil)
	mockCache.EXPECT().SetMerchant(gomock.Any(), stored).Return(nil)

	svc := NewMerchantRegistry(mockRepo, mockCache, mockClock, mockAudit, zerolog.Nop())

	merchant, err := svc.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, stored, merchant)
}
