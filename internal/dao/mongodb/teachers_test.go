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

func TestTeacherDAO_FindByMobile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupBillingIntegration(t)
	dao := NewTeacherDAO(db, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	teacher := &models.Teacher{
		ID:          primitive.NewObjectID(),
		TeacherName: "Nimal Perera",
		Mobile:      "0771234567",
		SchoolName:  "Ananda College",
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := dao.Create(ctx, teacher)
	require.NoError(t, err)

	t.Run("returns the teacher for their mobile", func(t *testing.T) {
		found, err := dao.FindByMobile(ctx, "0771234567")
		require.NoError(t, err)
		require.Equal(t, teacher.ID, found.ID)
		require.Equal(t, "Nimal Perera", found.TeacherName)
	})

	t.Run("unknown mobile returns ErrNotFound", func(t *testing.T) {
		_, err := dao.FindByMobile(ctx, "0700000000")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
