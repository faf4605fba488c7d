package repository

import (
	"context"
	"testing"
	"time"

	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mongoDoc(m *model.Member) bson.D {
	return bson.D{
		{Key: "id", Value: m.ID},
		{Key: "name", Value: m.Name},
		{Key: "role", Value: m.Role},
		{Key: "photo", Value: m.Photo},
		{Key: "description", Value: m.Description},
		{Key: "created_at", Value: m.CreatedAt},
		{Key: "updated_at", Value: m.UpdatedAt},
	}
}

func TestMongoMemberRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ada := model.NewMember("m-1", "Ada", "Lead", nil, nil, created)
	grace := model.NewMember("m-2", "Grace", "Core", nil, nil, created.Add(time.Second))

	mt.Run("InsertSuccess", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.Insert(ctx, ada))
	})

	mt.Run("InsertCreatesIndexesOnce", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // createIndexes
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, repo.Insert(ctx, ada))
		require.NoError(mt, repo.Insert(ctx, grace))

		var createIndexes int
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "createIndexes" {
				createIndexes++
			}
		}
		assert.Equal(mt, 1, createIndexes)
	})

	mt.Run("InsertRetriesIndexesAfterFailure", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized to create indexes",
		}))

		assert.ErrorIs(mt, repo.Insert(ctx, ada), common.ErrStoreUnavailable)

		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		assert.NoError(mt, repo.Insert(ctx, ada))
	})

	mt.Run("InsertDuplicate", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		assert.ErrorIs(mt, repo.Insert(ctx, ada), common.ErrConflict)
	})

	mt.Run("InsertCommandError", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    91,
			Name:    "ShutdownInProgress",
			Message: "server is shutting down",
		}))

		assert.ErrorIs(mt, repo.Insert(ctx, ada), common.ErrStoreUnavailable)
	})

	mt.Run("ListAll", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, mongoDoc(ada)),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, mongoDoc(grace)),
		)

		members, err := repo.ListAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, members, 2)
		assert.Equal(mt, "m-1", members[0].ID)
		assert.Equal(mt, "m-2", members[1].ID)
		assert.Nil(mt, members[0].Photo)
		assert.True(mt, ada.CreatedAt.Equal(members[0].CreatedAt))
	})

	mt.Run("ListAllEmpty", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		members, err := repo.ListAll(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, members)
		assert.Empty(mt, members)
	})

	mt.Run("FindByID", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, mongoDoc(ada)))

		got, err := repo.FindByID(ctx, "m-1")
		require.NoError(mt, err)
		assert.Equal(mt, "Ada", got.Name)
	})

	mt.Run("FindByIDNotFound", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(mt, err, common.ErrNotFound)
	})

	mt.Run("Update", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, mongoDoc(ada)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		updated, err := repo.Update(ctx, "m-1", model.MemberPatch{Role: model.Some("Mentor")}, created.Add(time.Hour))
		require.NoError(mt, err)
		assert.Equal(mt, "Mentor", updated.Role)
		assert.True(mt, updated.UpdatedAt.After(ada.UpdatedAt))
	})

	mt.Run("UpdateNoChange", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, mongoDoc(ada)))

		_, err := repo.Update(ctx, "m-1", model.MemberPatch{}, created.Add(time.Hour))
		assert.ErrorIs(mt, err, common.ErrNoChange)
	})

	mt.Run("UpdateRaceWithDelete", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, mongoDoc(ada)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		_, err := repo.Update(ctx, "m-1", model.MemberPatch{Name: model.Some("X")}, created.Add(time.Hour))
		assert.ErrorIs(mt, err, common.ErrNotFound)
	})

	mt.Run("Delete", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		id, err := repo.DeleteByID(ctx, "m-1")
		require.NoError(mt, err)
		assert.Equal(mt, "m-1", id)
	})

	mt.Run("DeleteNotFound", func(mt *mtest.T) {
		repo := NewMongoMemberRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		_, err := repo.DeleteByID(ctx, "m-1")
		assert.ErrorIs(mt, err, common.ErrNotFound)
	})

	mt.Run("EnsureIndexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, EnsureMongoIndexes(ctx, mt.Coll))
	})
}
