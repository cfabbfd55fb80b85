// Package memory provides mutex-guarded in-memory implementations of the
// repository ports, keyed by record address. It backs tests and local runs
// without a database.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"merchant-ledger/internal/core/domain"
	"merchant-ledger/internal/core/ports"
)

// Store holds every record kind behind one lock. Create methods have
// create-if-absent semantics and return ports.ErrAlreadyExists on an
// occupied address, matching the postgres adapter.
type Store struct {
	mu            sync.RWMutex
	merchants     map[domain.Address]*domain.Merchant
	payments      map[domain.Address]*domain.Payment
	plans         map[domain.Address]*domain.SubscriptionPlan
	subscriptions map[domain.Address]*domain.UserSubscription
	auditLog      []*domain.AuditEntry
}

func NewStore() *Store {
	return &Store{
		merchants:     make(map[domain.Address]*domain.Merchant),
		payments:      make(map[domain.Address]*domain.Payment),
		plans:         make(map[domain.Address]*domain.SubscriptionPlan),
		subscriptions: make(map[domain.Address]*domain.UserSubscription),
	}
}

// Merchants returns the merchant repository view of the store.
func (s *Store) Merchants() ports.MerchantRepository { return (*merchantRepo)(s) }

// Payments returns the payment repository view of the store.
func (s *Store) Payments() ports.PaymentRepository { return (*paymentRepo)(s) }

// Plans returns the plan repository view of the store.
func (s *Store) Plans() ports.PlanRepository { return (*planRepo)(s) }

// Subscriptions returns the subscription repository view of the store.
func (s *Store) Subscriptions() ports.SubscriptionRepository { return (*subscriptionRepo)(s) }

// Audit returns the audit repository view of the store.
func (s *Store) Audit() ports.AuditRepository { return (*auditRepo)(s) }

// AuditEntries returns a snapshot of the recorded audit trail in insertion
// order.
func (s *Store) AuditEntries() []*domain.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.AuditEntry, len(s.auditLog))
	copy(out, s.auditLog)
	return out
}

type merchantRepo Store

func (r *merchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.merchants[m.Address]; ok {
		return ports.ErrAlreadyExists
	}
	cp := *m
	r.merchants[m.Address] = &cp
	return nil
}

func (r *merchantRepo) Get(ctx context.Context, addr domain.Address) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.merchants[addr]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

type paymentRepo Store

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.Address]; ok {
		return ports.ErrAlreadyExists
	}
	cp := *p
	r.payments[p.Address] = &cp
	return nil
}

func (r *paymentRepo) Get(ctx context.Context, addr domain.Address) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[addr]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type planRepo Store

func (r *planRepo) Create(ctx context.Context, p *domain.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.Address]; ok {
		return ports.ErrAlreadyExists
	}
	cp := *p
	r.plans[p.Address] = &cp
	return nil
}

func (r *planRepo) Get(ctx context.Context, addr domain.Address) (*domain.SubscriptionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[addr]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *planRepo) SetActive(ctx context.Context, addr domain.Address, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[addr]
	if !ok {
		return fmt.Errorf("no plan at %s", addr)
	}
	p.IsActive = active
	return nil
}

type subscriptionRepo Store

func (r *subscriptionRepo) Create(ctx context.Context, sub *domain.UserSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscriptions[sub.Address]; ok {
		return ports.ErrAlreadyExists
	}
	cp := *sub
	r.subscriptions[sub.Address] = &cp
	return nil
}

func (r *subscriptionRepo) Get(ctx context.Context, addr domain.Address) (*domain.UserSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subscriptions[addr]
	if !ok {
		return nil, nil
	}
	cp := *sub
	if sub.CanceledAt != nil {
		at := *sub.CanceledAt
		cp.CanceledAt = &at
	}
	return &cp, nil
}

func (r *subscriptionRepo) Cancel(ctx context.Context, addr domain.Address, canceledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subscriptions[addr]
	if !ok {
		return fmt.Errorf("no subscription at %s", addr)
	}
	sub.IsActive = false
	sub.CanceledAt = &canceledAt
	return nil
}

type auditRepo Store

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.auditLog = append(r.auditLog, &cp)
	return nil
}
