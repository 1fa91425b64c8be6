package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

func TestBookDAO_FindByName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupBillingIntegration(t)
	dao := NewBookDAO(db, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	book := &models.Book{
		ID:           primitive.NewObjectID(),
		Name:         "Grade 5 Mathematics",
		DefaultPrice: mustDecimal(t, "350"),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := dao.Create(ctx, book)
	require.NoError(t, err)

	t.Run("returns the book for its name", func(t *testing.T) {
		found, err := dao.FindByName(ctx, "Grade 5 Mathematics")
		require.NoError(t, err)
		require.Equal(t, book.ID, found.ID)
		requireDecimalEqual(t, book.DefaultPrice, found.DefaultPrice)
		require.True(t, found.IsActive)
	})

	t.Run("unknown name returns ErrNotFound", func(t *testing.T) {
		_, err := dao.FindByName(ctx, "Grade 13 Astrophysics")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
