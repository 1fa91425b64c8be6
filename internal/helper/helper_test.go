package helper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

func dec(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func TestCompareDecimal128(t *testing.T) {
	testCases := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"Less", "100.50", "200", -1},
		{"Equal", "100.50", "100.5", 0},
		{"EqualDifferentExponent", "100", "100.00", 0},
		{"Greater", "0.01", "0", 1},
		{"NegativeLessThanZero", "-5", "0", -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompareDecimal128(dec(t, tc.a), dec(t, tc.b))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddSubDecimal128(t *testing.T) {
	sum, err := AddDecimal128(dec(t, "150.25"), dec(t, "49.75"))
	require.NoError(t, err)
	cmp, err := CompareDecimal128(sum, dec(t, "200"))
	require.NoError(t, err)
	assert.Zero(t, cmp)

	diff, err := SubDecimal128(dec(t, "200"), dec(t, "75.50"))
	require.NoError(t, err)
	cmp, err = CompareDecimal128(diff, dec(t, "124.50"))
	require.NoError(t, err)
	assert.Zero(t, cmp)
}

func TestMulDecimal128ByInt(t *testing.T) {
	// Typical line item: unit price times quantity.
	got, err := MulDecimal128ByInt(dec(t, "350.00"), 3)
	require.NoError(t, err)
	cmp, err := CompareDecimal128(got, dec(t, "1050"))
	require.NoError(t, err)
	assert.Zero(t, cmp)

	got, err = MulDecimal128ByInt(dec(t, "19.99"), 0)
	require.NoError(t, err)
	cmp, err = CompareDecimal128(got, ZeroDecimal128)
	require.NoError(t, err)
	assert.Zero(t, cmp)
}

func TestNegateDecimal128(t *testing.T) {
	neg, err := NegateDecimal128(dec(t, "100.50"))
	require.NoError(t, err)

	sum, err := AddDecimal128(dec(t, "100.50"), neg)
	require.NoError(t, err)

	zero, err := IsZeroDecimal128(sum)
	require.NoError(t, err)
	assert.True(t, zero)
}

func TestIsZeroDecimal128(t *testing.T) {
	zero, err := IsZeroDecimal128(ZeroDecimal128)
	require.NoError(t, err)
	assert.True(t, zero)

	zero, err = IsZeroDecimal128(dec(t, "0.00"))
	require.NoError(t, err)
	assert.True(t, zero)

	zero, err = IsZeroDecimal128(dec(t, "0.01"))
	require.NoError(t, err)
	assert.False(t, zero)
}

func TestFloat64Conversions(t *testing.T) {
	d, err := Float64ToDecimal128(1250.75)
	require.NoError(t, err)

	f, err := Decimal128ToFloat64(d)
	require.NoError(t, err)
	assert.InDelta(t, 1250.75, f, 0.0001)
}

func TestOperatorFromContext(t *testing.T) {
	t.Run("MissingOperatorFallsBackToSystem", func(t *testing.T) {
		got := OperatorFromContext(context.Background())
		assert.Same(t, models.SystemUser, got)
	})

	t.Run("OperatorIsReturned", func(t *testing.T) {
		operator := &models.User{UserId: primitive.NewObjectID(), Name: "clerk"}
		ctx := context.WithValue(context.Background(), OperatorKey, operator)
		assert.Same(t, operator, OperatorFromContext(ctx))
	})
}

func TestObjectIDFromHex(t *testing.T) {
	want := primitive.NewObjectID()
	got, err := ObjectIDFromHex(want.Hex())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ObjectIDFromHex("not-a-hex-id")
	assert.Error(t, err)
}
