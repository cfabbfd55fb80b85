package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditOperation names the mutating operation an audit entry refers to.
type AuditOperation string

const (
	AuditOpRegisterMerchant AuditOperation = "REGISTER_MERCHANT"
	AuditOpRecordPayment    AuditOperation = "RECORD_PAYMENT"
	AuditOpCreatePlan       AuditOperation = "CREATE_PLAN"
	AuditOpSetPlanActive    AuditOperation = "SET_PLAN_ACTIVE"
	AuditOpEnroll           AuditOperation = "ENROLL"
	AuditOpCancel           AuditOperation = "CANCEL"
)

// AuditEntry records a single successful mutation for the trail. It is
// best-effort metadata, never part of the transition itself.
type AuditEntry struct {
	ID            uuid.UUID      `json:"id"`
	Operation     AuditOperation `json:"operation"`
	Actor         Identity       `json:"actor"`
	RecordAddress Address        `json:"record_address"`
	CreatedAt     time.Time      `json:"created_at"`
}
