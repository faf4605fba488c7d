package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dsc_team/internal/common"
	"dsc_team/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMemberRepository runs the behaviour every MemberRepository must share.
func testMemberRepository(t *testing.T, newRepo func(t *testing.T) MemberRepository) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	newMember := func(i int) *model.Member {
		return model.NewMember(uuid.NewString(), fmt.Sprintf("Member %d", i), "Core", nil, nil, base.Add(time.Duration(i)*time.Second))
	}

	t.Run("EmptyList", func(t *testing.T) {
		repo := newRepo(t)
		members, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, members)
		assert.Empty(t, members)
	})

	t.Run("InsertAndFind", func(t *testing.T) {
		repo := newRepo(t)
		photo := "https://example.com/ada.png"
		m := model.NewMember(uuid.NewString(), "Ada", "Lead", &photo, nil, base)
		require.NoError(t, repo.Insert(ctx, m))

		got, err := repo.FindByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.ID, got.ID)
		assert.Equal(t, "Ada", got.Name)
		require.NotNil(t, got.Photo)
		assert.Equal(t, photo, *got.Photo)
		assert.Nil(t, got.Description)
		assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	})

	t.Run("FindUnknown", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("ListAfterCreatesAndDeletes", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for i := 0; i < 5; i++ {
			m := newMember(i)
			require.NoError(t, repo.Insert(ctx, m))
			ids = append(ids, m.ID)
		}
		for _, id := range []string{ids[1], ids[3]} {
			_, err := repo.DeleteByID(ctx, id)
			require.NoError(t, err)
		}

		members, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, members, 3)
		assert.Equal(t, []string{ids[0], ids[2], ids[4]}, []string{members[0].ID, members[1].ID, members[2].ID})
		for i := 1; i < len(members); i++ {
			assert.False(t, members[i].CreatedAt.Before(members[i-1].CreatedAt))
		}
	})

	t.Run("UpdateMergesSuppliedFields", func(t *testing.T) {
		repo := newRepo(t)
		m := newMember(0)
		require.NoError(t, repo.Insert(ctx, m))

		updated, err := repo.Update(ctx, m.ID, model.MemberPatch{Role: model.Some("Mentor"), Description: model.Some("bio")}, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, m.Name, updated.Name)
		assert.Equal(t, "Mentor", updated.Role)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "bio", *updated.Description)
		assert.True(t, updated.UpdatedAt.After(m.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(m.CreatedAt))

		stored, err := repo.FindByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mentor", stored.Role)
		assert.True(t, stored.UpdatedAt.Equal(updated.UpdatedAt))
	})

	t.Run("UpdateUnknown", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Update(ctx, "missing", model.MemberPatch{Name: model.Some("X")}, base)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("UpdateWithoutChanges", func(t *testing.T) {
		repo := newRepo(t)
		m := newMember(0)
		require.NoError(t, repo.Insert(ctx, m))

		_, err := repo.Update(ctx, m.ID, model.MemberPatch{}, base.Add(time.Hour))
		assert.ErrorIs(t, err, common.ErrNoChange)

		_, err = repo.Update(ctx, m.ID, model.MemberPatch{Name: model.Some(m.Name), Photo: model.Null[string]()}, base.Add(time.Hour))
		assert.ErrorIs(t, err, common.ErrNoChange)

		stored, err := repo.FindByID(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, stored.UpdatedAt.Equal(m.UpdatedAt))
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		repo := newRepo(t)
		m := newMember(0)
		require.NoError(t, repo.Insert(ctx, m))

		id, err := repo.DeleteByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.ID, id)

		_, err = repo.DeleteByID(ctx, m.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)

		_, err = repo.FindByID(ctx, m.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		repo := newRepo(t)
		m := newMember(0)
		require.NoError(t, repo.Insert(ctx, m))
		assert.ErrorIs(t, repo.Insert(ctx, m), common.ErrConflict)
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(ctx))
	})
}
