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

func NewBookDAO(db *mongo.Database, logger *zap.Logger) *BookDAO {
	return &BookDAO{
		booksCollection: db.Collection(CollectionBooks),
		logger:          logger.Named("BookDAO"),
	}
}

type BookDAO struct {
	booksCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *BookDAO) Create(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := d.booksCollection.InsertOne(ctx, book)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateKey
		}
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.Any("book", book))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *BookDAO) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := d.booksCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &book, nil
}

func (d *BookDAO) FindByName(ctx context.Context, name string) (*models.Book, error) {
	var book models.Book
	err := d.booksCollection.FindOne(ctx, bson.M{fields.FieldBookName: name}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("FindByName: FindOne failed", zap.Error(err), zap.String("name", name))
		return nil, err
	}
	return &book, nil
}

func (d *BookDAO) List(ctx context.Context, activeOnly bool) ([]*models.Book, error) {
	filter := bson.M{}
	if activeOnly {
		filter[fields.FieldBookIsActive] = true
	}

	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldBookName, Value: 1}})
	cursor, err := d.booksCollection.Find(ctx, filter, findOptions)
	if err != nil {
		d.logger.Error("List: Find failed", zap.Error(err))
		return nil, err
	}

	books := make([]*models.Book, 0)
	if err := cursor.All(ctx, &books); err != nil {
		d.logger.Error("List: cursor.All failed", zap.Error(err))
		return nil, err
	}
	return books, nil
}

// Update updates a single book using functional options.
func (d *BookDAO) Update(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
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

	res, err := d.booksCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
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
