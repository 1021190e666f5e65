package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"mindcheck/internal/model"
)

func TestReportRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save upserts by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))
		repo := NewReportRepo(mt.DB)

		err := repo.Save(context.Background(), &model.Report{ID: "PSY-20260301-ABC123", ClientID: "c1", Type: "scl90"})
		require.NoError(mt, err)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".reports"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "PSY-20260301-ABC123"},
			{Key: "clientId", Value: "c1"},
			{Key: "type", Value: "scl90"},
			{Key: "title", Value: "SCL-90"},
		}))
		repo := NewReportRepo(mt.DB)

		got, err := repo.GetByID(context.Background(), "PSY-20260301-ABC123")
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, "c1", got.ClientID)
		assert.Equal(mt, "SCL-90", got.Title)
	})

	mt.Run("get missing returns nil", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".reports"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewReportRepo(mt.DB)

		got, err := repo.GetByID(context.Background(), "missing")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("list by client", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".reports"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "r2"}, {Key: "clientId", Value: "c1"}},
			bson.D{{Key: "_id", Value: "r1"}, {Key: "clientId", Value: "c1"}},
		))
		repo := NewReportRepo(mt.DB)

		got, err := repo.ListByClient(context.Background(), "c1", 10)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "r2", got[0].ID)
		assert.Equal(mt, "r1", got[1].ID)
	})

	mt.Run("save surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		repo := NewReportRepo(mt.DB)

		err := repo.Save(context.Background(), &model.Report{ID: "dup"})
		assert.Error(mt, err)
	})
}
