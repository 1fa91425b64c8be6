package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/constants"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentEventTopic is the queue topic payment events are relayed to.
type PaymentEventTopic string

// PaymentEventPublisher writes payment business events to the outbox so they
// reach the message queue through the outbox worker.
type PaymentEventPublisher struct {
	outboxRepo        repository.OutboxRepository
	paymentEventTopic PaymentEventTopic
}

func NewPaymentEventPublisher(outboxRepo repository.OutboxRepository, paymentEventTopic PaymentEventTopic) *PaymentEventPublisher {
	return &PaymentEventPublisher{
		outboxRepo:        outboxRepo,
		paymentEventTopic: paymentEventTopic,
	}
}

// PublishPaymentEvent records a payment create/delete event in the outbox.
func (p *PaymentEventPublisher) PublishPaymentEvent(ctx context.Context, action constants.PaymentAction, payment *models.Payment, bill *models.Bill) error {
	payload := map[string]interface{}{
		"action":         action.String(),
		"payment_id":     payment.ID.Hex(),
		"receipt_no":     payment.ReceiptNo,
		"amount":         payment.Amount.String(),
		"bill_id":        bill.ID.Hex(),
		"bill_number":    bill.BillNumber,
		"remain_payment": bill.RemainPayment.String(),
		"bill_status":    bill.Status,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event payload: %w", err)
	}

	outboxMsg := &models.OutboxMessage{
		ID:        primitive.NewObjectID(),
		Topic:     string(p.paymentEventTopic),
		Payload:   string(payloadBytes),
		Status:    models.OutboxStatusPending,
		CreatedAt: time.Now(),
	}

	if err := p.outboxRepo.Create(ctx, outboxMsg); err != nil {
		return fmt.Errorf("failed to create payment event outbox message: %w", err)
	}
	return nil
}
