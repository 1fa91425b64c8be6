package mongodb

import (
	"context"
	"errors"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/fields"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewPaymentDAO(db *mongo.Database, logger *zap.Logger) *PaymentDAO {
	return &PaymentDAO{
		paymentsCollection: db.Collection(CollectionPayments),
		logger:             logger.Named("PaymentDAO"),
	}
}

type PaymentDAO struct {
	paymentsCollection *mongo.Collection
	logger             *zap.Logger
}

func (d *PaymentDAO) Create(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	res, err := d.paymentsCollection.InsertOne(ctx, payment)
	if err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.Any("payment", payment))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *PaymentDAO) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	err := d.paymentsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &payment, nil
}

// ListByBill returns a bill's payments newest payment date first.
func (d *PaymentDAO) ListByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldPaymentDate, Value: -1}})
	cursor, err := d.paymentsCollection.Find(ctx, bson.M{fields.FieldPaymentBill: billID}, findOptions)
	if err != nil {
		d.logger.Error("ListByBill: Find failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}

	payments := make([]*models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		d.logger.Error("ListByBill: cursor.All failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}
	return payments, nil
}

// SumByBill totals the recorded payment amounts for a bill. A bill with no
// payments sums to zero.
func (d *PaymentDAO) SumByBill(ctx context.Context, billID primitive.ObjectID) (primitive.Decimal128, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: fields.FieldPaymentBill, Value: billID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: fields.FieldObjectId, Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + fields.FieldPaymentAmount}}},
		}}},
	}

	cursor, err := d.paymentsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		d.logger.Error("SumByBill: Aggregate failed", zap.Error(err), zap.Stringer("billID", billID))
		return helper.ZeroDecimal128, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total primitive.Decimal128 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		d.logger.Error("SumByBill: cursor.All failed", zap.Error(err), zap.Stringer("billID", billID))
		return helper.ZeroDecimal128, err
	}

	if len(results) == 0 {
		return helper.ZeroDecimal128, nil
	}
	return results[0].Total, nil
}

func (d *PaymentDAO) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := d.paymentsCollection.DeleteOne(ctx, bson.M{fields.FieldObjectId: id})
	if err != nil {
		d.logger.Error("Delete: DeleteOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByBill removes every payment belonging to a bill and reports how many
// documents went away. Used by the bill cascade delete.
func (d *PaymentDAO) DeleteByBill(ctx context.Context, billID primitive.ObjectID) (int64, error) {
	res, err := d.paymentsCollection.DeleteMany(ctx, bson.M{fields.FieldPaymentBill: billID})
	if err != nil {
		d.logger.Error("DeleteByBill: DeleteMany failed", zap.Error(err), zap.Stringer("billID", billID))
		return 0, err
	}
	return res.DeletedCount, nil
}
