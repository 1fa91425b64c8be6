package main

import (
	"context"
	"fmt"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/app"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/conf"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/mongodb"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/limiter"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/logger"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/logic"
	middleware "github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/middleware/http"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/mq"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/mq/noop"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/mq/rabbitmq"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/provider"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/service"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/worker"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/pkg/snowflake"
)

// initializeApp wires the full dependency graph by hand. Construction order
// follows the layers: infrastructure, DAOs, logic, HTTP.
func initializeApp(appConfig *conf.AppConfig) (*app.App, func(), error) {
	zapLogger, err := logger.NewLogger(appConfig.LogConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*app.App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	mongoClient, mongoCleanup, err := mongodb.NewMongoDB(appConfig.MongodbConfig, zapLogger)
	if err != nil {
		return fail(fmt.Errorf("failed to connect to mongodb: %w", err))
	}
	cleanups = append(cleanups, mongoCleanup)

	database := provider.ProvideDatabase(mongoClient, appConfig.MongodbConfig)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer indexCancel()
	if err := mongodb.EnsureIndexes(indexCtx, database, zapLogger); err != nil {
		return fail(fmt.Errorf("failed to ensure indexes: %w", err))
	}

	mode := provider.ProvideAppMode(appConfig)
	txManager := provider.ProvideTransactionManager(mode, mongoClient)

	idGenerator, err := snowflake.NewGenerator(provider.ProvideMachineID())
	if err != nil {
		return fail(fmt.Errorf("failed to init id generator: %w", err))
	}

	// DAOs
	bookDAO := mongodb.NewBookDAO(database, zapLogger)
	teacherDAO := mongodb.NewTeacherDAO(database, zapLogger)
	billDAO := mongodb.NewBillDAO(database, zapLogger)
	paymentDAO := mongodb.NewPaymentDAO(database, zapLogger)
	auditLogDAO := mongodb.NewAuditLogDAO(database, zapLogger)
	outboxDAO := mongodb.NewOutboxDAO(database, zapLogger)

	// Messaging. With RabbitMQ disabled a no-op publisher stands in and the
	// outbox worker stays off, keeping undelivered events in the outbox.
	var publisher mq.Publisher
	var workers []worker.Worker
	if appConfig.RabbitMQConfig.Enabled {
		rabbitPublisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQConfig, zapLogger)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to rabbitmq: %w", err))
		}
		publisher = rabbitPublisher
		workers = append(workers, worker.NewOutboxProcessor(outboxDAO, publisher, zapLogger, appConfig.WorkerConfig))
	} else {
		publisher = noop.NewPublisher()
	}
	cleanups = append(cleanups, publisher.Close)

	paymentEventPublisher := logic.NewPaymentEventPublisher(outboxDAO, provider.ProvidePaymentEventTopic(appConfig))

	// Logic
	bookLogic := logic.NewBookLogic(bookDAO, zapLogger)
	teacherLogic := logic.NewTeacherLogic(teacherDAO, zapLogger)
	billLogic := logic.NewBillLogic(billDAO, teacherDAO, bookDAO, paymentDAO, auditLogDAO, txManager, zapLogger)
	paymentLogic := logic.NewPaymentLogic(paymentDAO, billDAO, auditLogDAO, paymentEventPublisher, idGenerator, zapLogger)

	// Rate limiting is optional; without Redis the API runs unthrottled.
	var limiterManager *limiter.Manager
	if appConfig.RateLimiterConfig != nil && appConfig.RateLimiterConfig.Enabled {
		redisClient, redisCleanup, err := provider.ProvideRedisClient(appConfig.RedisConfig)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}
		cleanups = append(cleanups, redisCleanup)

		limiterManager, err = limiter.NewManager(appConfig.RateLimiterConfig, redisClient, provider.ProvideRedisNamespace(appConfig))
		if err != nil {
			return fail(fmt.Errorf("failed to init rate limiter: %w", err))
		}
	}

	// HTTP
	validate := dto.NewValidator()
	router := app.NewRouter(app.RouterDeps{
		Books:          service.NewBookHandler(bookLogic, validate, zapLogger),
		Teachers:       service.NewTeacherHandler(teacherLogic, validate, zapLogger),
		Bills:          service.NewBillHandler(billLogic, validate, zapLogger),
		Payments:       service.NewPaymentHandler(paymentLogic, validate, zapLogger),
		Health:         service.NewHealthHandler(mongoClient, zapLogger),
		Operator:       middleware.NewOperatorMiddleware(),
		LimiterManager: limiterManager,
	})

	application, appCleanup, err := app.NewApp(appConfig.Port, zapLogger, router, workers)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, appCleanup)

	return application, cleanup, nil
}
