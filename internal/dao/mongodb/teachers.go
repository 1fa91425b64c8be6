package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/fields"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func NewTeacherDAO(db *mongo.Database, logger *zap.Logger) *TeacherDAO {
	return &TeacherDAO{
		teachersCollection: db.Collection(CollectionTeachers),
		logger:             logger.Named("TeacherDAO"),
	}
}

type TeacherDAO struct {
	teachersCollection *mongo.Collection
	logger             *zap.Logger
}

func (d *TeacherDAO) Create(ctx context.Context, teacher *models.Teacher) (primitive.ObjectID, error) {
	res, err := d.teachersCollection.InsertOne(ctx, teacher)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateKey
		}
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.Any("teacher", teacher))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *TeacherDAO) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Teacher, error) {
	var teacher models.Teacher
	err := d.teachersCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&teacher)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &teacher, nil
}

func (d *TeacherDAO) FindByMobile(ctx context.Context, mobile string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := d.teachersCollection.FindOne(ctx, bson.M{fields.FieldTeacherMobile: mobile}).Decode(&teacher)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("FindByMobile: FindOne failed", zap.Error(err), zap.String("mobile", mobile))
		return nil, err
	}
	return &teacher, nil
}

func (d *TeacherDAO) List(ctx context.Context) ([]*models.Teacher, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldTeacherName, Value: 1}})
	cursor, err := d.teachersCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		d.logger.Error("List: Find failed", zap.Error(err))
		return nil, err
	}

	teachers := make([]*models.Teacher, 0)
	if err := cursor.All(ctx, &teachers); err != nil {
		d.logger.Error("List: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return teachers, nil
}

// Update updates a single teacher using functional options.
func (d *TeacherDAO) Update(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
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

	res, err := d.teachersCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
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

func (d *TeacherDAO) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := d.teachersCollection.DeleteOne(ctx, bson.M{fields.FieldObjectId: id})
	if err != nil {
		d.logger.Error("Delete: DeleteOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
