package logic

import (
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/constants"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogOption defines a function that configures an AuditLog object.
type AuditLogOption func(*models.AuditLog)

// WithReason is an option to add a reason to an audit log.
func WithReason(reason string) AuditLogOption {
	return func(log *models.AuditLog) {
		if reason != "" {
			log.Reason = reason
		}
	}
}

// NewAuditLog is the shared constructor for audit records. before/after hold
// the entity snapshots around the change; nil marks creation or deletion.
func NewAuditLog(user *models.User, action, entityType string, entityID primitive.ObjectID, before, after interface{}, opts ...AuditLogOption) *models.AuditLog {
	log := &models.AuditLog{
		ID:         primitive.NewObjectID(),
		UserID:     user.UserId,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes: map[string]interface{}{
			"before": before,
			"after":  after,
		},
		Timestamp: time.Now(),
	}

	for _, opt := range opts {
		opt(log)
	}

	return log
}

func buildCreateBillAuditLog(operator *models.User, bill *models.Bill) *models.AuditLog {
	return NewAuditLog(operator, constants.AuditActionCreateBill, constants.AuditEntityBill, bill.ID, nil, bill)
}

func buildUpdateBillAuditLog(operator *models.User, before, after *models.Bill) *models.AuditLog {
	return NewAuditLog(operator, constants.AuditActionUpdateBill, constants.AuditEntityBill, before.ID, before, after)
}

func buildDeleteBillAuditLog(operator *models.User, deleted *models.Bill, removedPayments int64) *models.AuditLog {
	auditLog := NewAuditLog(operator, constants.AuditActionDeleteBill, constants.AuditEntityBill, deleted.ID, deleted, nil)
	auditLog.Changes["removed_payments"] = removedPayments
	return auditLog
}

func buildCreatePaymentAuditLog(operator *models.User, payment *models.Payment, bill *models.Bill) *models.AuditLog {
	auditLog := NewAuditLog(operator, constants.AuditActionCreatePayment, constants.AuditEntityPayment, payment.ID, nil, payment)
	auditLog.Changes["bill_after"] = map[string]interface{}{
		"remain_payment": bill.RemainPayment.String(),
		"status":         bill.Status,
	}
	return auditLog
}

func buildDeletePaymentAuditLog(operator *models.User, payment *models.Payment, bill *models.Bill, reason string) *models.AuditLog {
	auditLog := NewAuditLog(operator, constants.AuditActionDeletePayment, constants.AuditEntityPayment, payment.ID, payment, nil, WithReason(reason))
	auditLog.Changes["bill_after"] = map[string]interface{}{
		"remain_payment": bill.RemainPayment.String(),
		"status":         bill.Status,
	}
	return auditLog
}
