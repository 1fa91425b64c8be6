package db

import "context"

// NoOpTransactionManager executes the function directly without a session.
// Used in dev mode where the MongoDB deployment is a standalone instance.
type NoOpTransactionManager struct{}

func NewNoOpTransactionManager() TransactionManager {
	return &NoOpTransactionManager{}
}

func (n *NoOpTransactionManager) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}
