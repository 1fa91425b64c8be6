package helper

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

// ZeroDecimal128 is the canonical zero amount.
var ZeroDecimal128 = primitive.NewDecimal128(0x3040000000000000, 0)

// CompareDecimal128 compares two primitive.Decimal128 values.
// It returns:
// -1 if d1 < d2
// 0 if d1 == d2
// 1 if d1 > d2
// An error if conversion to BigFloat fails.
func CompareDecimal128(d1, d2 primitive.Decimal128) (int, error) {
	f1, _, err := new(big.Float).Parse(d1.String(), 10)
	if err != nil {
		return 0, fmt.Errorf("failed to convert d1 to big.Float: %w", err)
	}
	f2, _, err := new(big.Float).Parse(d2.String(), 10)
	if err != nil {
		return 0, fmt.Errorf("failed to convert d2 to big.Float: %w", err)
	}
	return f1.Cmp(f2), nil
}

// AddDecimal128 adds two primitive.Decimal128 values (d1 + d2).
func AddDecimal128(d1, d2 primitive.Decimal128) (primitive.Decimal128, error) {
	f1, _, err := new(big.Float).SetPrec(big.MaxPrec).Parse(d1.String(), 10)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert d1 to big.Float: %w", err)
	}
	f2, _, err := new(big.Float).SetPrec(big.MaxPrec).Parse(d2.String(), 10)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert d2 to big.Float: %w", err)
	}

	resultFloat := new(big.Float).Add(f1, f2)

	resultDecimal, err := primitive.ParseDecimal128(resultFloat.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert result to Decimal128: %w", err)
	}

	return resultDecimal, nil
}

// SubDecimal128 subtracts d2 from d1 (d1 - d2).
func SubDecimal128(d1, d2 primitive.Decimal128) (primitive.Decimal128, error) {
	f1, _, err := new(big.Float).SetPrec(big.MaxPrec).Parse(d1.String(), 10)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert d1 to big.Float: %w", err)
	}
	f2, _, err := new(big.Float).SetPrec(big.MaxPrec).Parse(d2.String(), 10)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert d2 to big.Float: %w", err)
	}

	resultFloat := new(big.Float).Sub(f1, f2)

	resultDecimal, err := primitive.ParseDecimal128(resultFloat.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert result to Decimal128: %w", err)
	}

	return resultDecimal, nil
}

// MulDecimal128ByInt multiplies an amount by an integer quantity.
func MulDecimal128ByInt(d primitive.Decimal128, n int64) (primitive.Decimal128, error) {
	f, _, err := new(big.Float).SetPrec(big.MaxPrec).Parse(d.String(), 10)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert d to big.Float: %w", err)
	}

	resultFloat := new(big.Float).Mul(f, new(big.Float).SetInt64(n))

	resultDecimal, err := primitive.ParseDecimal128(resultFloat.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert result to Decimal128: %w", err)
	}

	return resultDecimal, nil
}

// NegateDecimal128 multiplies a Decimal128 value by -1.
func NegateDecimal128(d primitive.Decimal128) (primitive.Decimal128, error) {
	f, _, err := new(big.Float).SetPrec(big.MaxPrec).Parse(d.String(), 10)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert d to big.Float: %w", err)
	}

	resultFloat := new(big.Float).Mul(f, big.NewFloat(-1))

	resultDecimal, err := primitive.ParseDecimal128(resultFloat.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert result to Decimal128: %w", err)
	}

	return resultDecimal, nil
}

// IsZeroDecimal128 reports whether the amount equals zero.
func IsZeroDecimal128(d primitive.Decimal128) (bool, error) {
	cmp, err := CompareDecimal128(d, ZeroDecimal128)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// Decimal128ToFloat64 converts a primitive.Decimal128 to a float64.
// It returns an error if the underlying string conversion fails.
func Decimal128ToFloat64(d primitive.Decimal128) (float64, error) {
	return strconv.ParseFloat(d.String(), 64)
}

// Float64ToDecimal128 converts a float64 amount to a primitive.Decimal128.
func Float64ToDecimal128(f float64) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(strconv.FormatFloat(f, 'f', -1, 64))
}

type contextKey string

// OperatorKey is the context key under which the request operator is stored.
const OperatorKey contextKey = "operator"

// OperatorFromContext returns the operator recorded by the middleware, or
// SystemUser when the request carried no identity.
func OperatorFromContext(ctx context.Context) *models.User {
	if u, ok := ctx.Value(OperatorKey).(*models.User); ok && u != nil {
		return u
	}
	return models.SystemUser
}

// ObjectIDFromHex parses a hex string into an ObjectID with a uniform error.
func ObjectIDFromHex(s string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid object id")
	}
	return oid, nil
}
