package service

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// HealthHandler reports process liveness and database reachability.
type HealthHandler struct {
	mongoClient *mongo.Client
	logger      *zap.Logger
}

func NewHealthHandler(mongoClient *mongo.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		logger:      logger.Named("HealthHandler"),
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		WriteHttpError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	WriteHttpSuccess(w, http.StatusOK, map[string]string{"state": "healthy"})
}
