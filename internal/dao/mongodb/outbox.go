package mongodb

import (
	"context"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/fields"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewOutboxDAO(db *mongo.Database, logger *zap.Logger) *OutboxDAO {
	return &OutboxDAO{
		outboxCollection: db.Collection(CollectionOutbox),
		logger:           logger.Named("OutboxDAO"),
	}
}

type OutboxDAO struct {
	outboxCollection *mongo.Collection
	logger           *zap.Logger
}

func (d *OutboxDAO) Create(ctx context.Context, message *models.OutboxMessage) error {
	_, err := d.outboxCollection.InsertOne(ctx, message)
	if err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("topic", message.Topic))
		return err
	}
	return nil
}

// ClaimAndFetchEvents claims a batch of pending events for this worker in
// three phases: find candidate IDs, stamp them with a claim id guarded by an
// optimistic status filter, then fetch the claimed documents. Competing
// workers lose the second phase and simply get an empty batch.
func (d *OutboxDAO) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	// Phase 1: candidate IDs only, oldest first.
	findOptions := options.Find().
		SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{fields.FieldObjectId: 1})

	cursor, err := d.outboxCollection.Find(ctx, bson.M{fields.FieldStatus: models.OutboxStatusPending}, findOptions)
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: candidate Find failed", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var candidates []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &candidates); err != nil {
		d.logger.Error("ClaimAndFetchEvents: candidate decode failed", zap.Error(err))
		return nil, err
	}
	if len(candidates) == 0 {
		return []*models.OutboxMessage{}, nil
	}

	ids := make([]primitive.ObjectID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	// Phase 2: claim. The pending-status filter is the optimistic lock; a
	// document already claimed by another worker falls out of the match.
	claimID := primitive.NewObjectID()
	updateFilter := bson.M{
		fields.FieldObjectId: bson.M{"$in": ids},
		fields.FieldStatus:   models.OutboxStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus:    models.OutboxStatusProcessing,
			"claim_id":            claimID,
			fields.FieldUpdatedAt: time.Now(),
		},
	}
	updateResult, err := d.outboxCollection.UpdateMany(ctx, updateFilter, update)
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: claim UpdateMany failed", zap.Error(err))
		return nil, err
	}
	if updateResult.ModifiedCount == 0 {
		// Another worker won the whole batch between phases. Not an error.
		return []*models.OutboxMessage{}, nil
	}

	// Phase 3: fetch exactly what we claimed.
	claimedCursor, err := d.outboxCollection.Find(ctx, bson.M{"claim_id": claimID})
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: claimed Find failed", zap.Error(err))
		return nil, err
	}

	var claimed []*models.OutboxMessage
	if err = claimedCursor.All(ctx, &claimed); err != nil {
		d.logger.Error("ClaimAndFetchEvents: claimed decode failed", zap.Error(err))
		return nil, err
	}
	return claimed, nil
}

func (d *OutboxDAO) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus: models.OutboxStatusProcessed,
			"processed_at":     time.Now(),
		},
	}
	_, err := d.outboxCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	return err
}

func (d *OutboxDAO) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus: models.OutboxStatusPending, // back to pending for retry
			"error":            errorMessage,
		},
		"$inc": bson.M{"retries": 1},
	}
	_, err := d.outboxCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	return err
}
