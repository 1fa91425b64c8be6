package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/constants"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/fields"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewBillDAO(db *mongo.Database, logger *zap.Logger) *BillDAO {
	return &BillDAO{
		billsCollection: db.Collection(CollectionBills),
		logger:          logger.Named("BillDAO"),
	}
}

type BillDAO struct {
	billsCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *BillDAO) Create(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	res, err := d.billsCollection.InsertOne(ctx, bill)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateKey
		}
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.Any("bill", bill))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *BillDAO) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	var bill models.Bill
	err := d.billsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &bill, nil
}

func (d *BillDAO) FindByNumber(ctx context.Context, billNumber string) (*models.Bill, error) {
	var bill models.Bill
	err := d.billsCollection.FindOne(ctx, bson.M{fields.FieldBillNumber: billNumber}).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("FindByNumber: FindOne failed", zap.Error(err), zap.String("billNumber", billNumber))
		return nil, err
	}
	return &bill, nil
}

// ListWithTeacher returns a page of bills, newest first, with the referenced
// teacher document joined in via $lookup.
func (d *BillDAO) ListWithTeacher(ctx context.Context, limit, offset int) ([]*dto.BillWithTeacher, int64, error) {
	filter := bson.M{}

	total, err := d.billsCollection.CountDocuments(ctx, filter)
	if err != nil {
		d.logger.Error("ListWithTeacher: CountDocuments failed", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return []*dto.BillWithTeacher{}, 0, nil
	}

	pipeline := mongo.Pipeline{}

	// Stage 1: Match all bills (kept as an explicit stage for future filters).
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: filter}})

	// Stage 2: Sort newest first.
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: fields.FieldCreatedAt, Value: -1}}}})

	// Stage 3/4: Pagination.
	if offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(offset)}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}

	// Stage 5: Lookup the teacher document.
	pipeline = append(pipeline, bson.D{
		{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollectionTeachers},
			{Key: "localField", Value: fields.FieldBillTeacher},
			{Key: "foreignField", Value: fields.FieldObjectId},
			{Key: "as", Value: "teacher_doc"},
		}},
	})

	cursor, err := d.billsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		d.logger.Error("ListWithTeacher: Aggregate failed", zap.Error(err))
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []*dto.BillWithTeacher
	if err = cursor.All(ctx, &results); err != nil {
		d.logger.Error("ListWithTeacher: cursor.All failed", zap.Error(err))
		return nil, 0, err
	}

	return results, total, nil
}

// Update updates a single bill using functional options.
func (d *BillDAO) Update(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	updateData := repository.NewUpdateOptions()
	for _, opt := range opts {
		opt(updateData)
	}

	update := bson.M{}
	if len(updateData.SetFields) > 0 {
		updateData.SetFields[fields.FieldUpdatedAt] = time.Now()
		update["$set"] = updateData.SetFields
	}
	if len(updateData.IncFields) > 0 {
		update["$inc"] = updateData.IncFields
	}
	if len(update) == 0 {
		return nil // Nothing to do.
	}

	res, err := d.billsCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		d.logger.Error("Update: UpdateOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *BillDAO) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := d.billsCollection.DeleteOne(ctx, bson.M{fields.FieldObjectId: id})
	if err != nil {
		d.logger.Error("Delete: DeleteOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyPaymentDebit decrements remain_payment by amount in a single
// FindOneAndUpdate. The filter doubles as the business precondition: the bill
// must exist, must not be in a terminal status and must have enough balance
// left. ErrNotFound is returned when no document matched; the caller re-reads
// the bill to tell the cases apart.
func (d *BillDAO) ApplyPaymentDebit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error) {
	filter := bson.M{
		fields.FieldObjectId: billID,
		fields.FieldStatus: bson.M{
			"$nin": []string{constants.BillStatusPaid.String(), constants.BillStatusClosed.String()},
		},
		fields.FieldBillRemainPayment: bson.M{"$gte": amount},
	}
	negated, err := helper.NegateDecimal128(amount)
	if err != nil {
		return nil, err
	}
	update := bson.M{
		"$inc": bson.M{fields.FieldBillRemainPayment: negated},
		"$set": bson.M{fields.FieldUpdatedAt: time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := d.billsCollection.FindOneAndUpdate(ctx, filter, update, opts)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("ApplyPaymentDebit: FindOneAndUpdate failed", zap.Error(res.Err()), zap.Stringer("billID", billID))
		return nil, res.Err()
	}

	var bill models.Bill
	if err := res.Decode(&bill); err != nil {
		d.logger.Error("ApplyPaymentDebit: Decode failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}
	return &bill, nil
}

// ReversePaymentCredit adds amount back onto remain_payment and returns the
// post-update bill. The bill only has to exist; reversals are allowed on
// terminal bills because they reopen them.
func (d *BillDAO) ReversePaymentCredit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error) {
	filter := bson.M{fields.FieldObjectId: billID}
	update := bson.M{
		"$inc": bson.M{fields.FieldBillRemainPayment: amount},
		"$set": bson.M{fields.FieldUpdatedAt: time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := d.billsCollection.FindOneAndUpdate(ctx, filter, update, opts)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("ReversePaymentCredit: FindOneAndUpdate failed", zap.Error(res.Err()), zap.Stringer("billID", billID))
		return nil, res.Err()
	}

	var bill models.Bill
	if err := res.Decode(&bill); err != nil {
		d.logger.Error("ReversePaymentCredit: Decode failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}
	return &bill, nil
}

// MarkPaidIfSettled flips status to paid only while remain_payment is still
// exactly zero. A concurrent reversal between the debit and this call makes
// the filter miss, which is the desired outcome and not an error.
func (d *BillDAO) MarkPaidIfSettled(ctx context.Context, billID primitive.ObjectID) error {
	filter := bson.M{
		fields.FieldObjectId:          billID,
		fields.FieldBillRemainPayment: helper.ZeroDecimal128,
	}
	update := bson.M{
		"$set": bson.M{
			fields.FieldStatus:    constants.BillStatusPaid.String(),
			fields.FieldUpdatedAt: time.Now(),
		},
	}

	_, err := d.billsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		d.logger.Error("MarkPaidIfSettled: UpdateOne failed", zap.Error(err), zap.Stringer("billID", billID))
		return err
	}
	return nil
}
