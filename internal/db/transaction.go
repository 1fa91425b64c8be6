package db

import "context"

// TransactionManager runs a function inside a database transaction. The
// multi-document writes (bill cascade delete, bill update reconciliation)
// go through this so a mid-flight failure rolls back cleanly.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error)
}
