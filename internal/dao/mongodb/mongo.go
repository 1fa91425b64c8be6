package mongodb

import (
	"context"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/conf"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/fields"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// NewMongoDB connects to the configured MongoDB deployment and verifies the
// connection with a ping. The returned cleanup function disconnects the client.
func NewMongoDB(cfg *conf.MongodbConfig, logger *zap.Logger) (*mongo.Client, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.ConnString())
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Error("mongodb: Connect failed", zap.Error(err))
		return nil, nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("mongodb: Ping failed", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	cleanup := func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("mongodb: Disconnect failed", zap.Error(err))
		}
	}

	logger.Info("mongodb: connected", zap.String("db", cfg.DB))
	return client, cleanup, nil
}

// EnsureIndexes creates the unique indexes the application relies on. It is
// safe to call on every startup; existing indexes are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	unique := options.Index().SetUnique(true)

	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{CollectionBills, mongo.IndexModel{
			Keys:    bson.D{{Key: fields.FieldBillNumber, Value: 1}},
			Options: unique,
		}},
		{CollectionBooks, mongo.IndexModel{
			Keys:    bson.D{{Key: fields.FieldBookName, Value: 1}},
			Options: unique,
		}},
		{CollectionTeachers, mongo.IndexModel{
			Keys:    bson.D{{Key: fields.FieldTeacherMobile, Value: 1}},
			Options: unique,
		}},
		{CollectionPayments, mongo.IndexModel{
			Keys: bson.D{{Key: fields.FieldPaymentBill, Value: 1}},
		}},
		{CollectionOutbox, mongo.IndexModel{
			Keys: bson.D{{Key: fields.FieldStatus, Value: 1}, {Key: fields.FieldCreatedAt, Value: 1}},
		}},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
			logger.Error("mongodb: CreateOne index failed", zap.Error(err), zap.String("collection", spec.collection))
			return err
		}
	}
	return nil
}
