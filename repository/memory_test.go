package repository_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
	testingutil "github.com/quillhub/quillhub/testing"
)

func memoryUser(username, email string) *models.User {
	return &models.User{
		Username:     username,
		Fullname:     "Memory User",
		Email:        email,
		PasswordHash: "hash",
	}
}

func TestMemoryUserRepository(t *testing.T) {
	store := repository.NewMemoryStore()
	users := store.Users()
	ctx := testingutil.CreateTestContext()

	t.Run("SaveAssignsID", func(t *testing.T) {
		u := memoryUser("first", "first@example.com")
		require.NoError(t, users.Save(ctx, u))
		assert.NotZero(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		require.NoError(t, users.Save(ctx, memoryUser("dup", "dup@example.com")))
		err := users.Save(ctx, memoryUser("dup", "other@example.com"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("SoftDeletedRowStillReservesKeys", func(t *testing.T) {
		u := memoryUser("reserved", "reserved@example.com")
		require.NoError(t, users.Save(ctx, u))
		require.NoError(t, users.SoftDelete(ctx, u.ID))

		err := users.Save(ctx, memoryUser("reserved", "fresh@example.com"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		err = users.Save(ctx, memoryUser("fresh", "reserved@example.com"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("ByIDExcludesSoftDeleted", func(t *testing.T) {
		u := memoryUser("gone", "gone@example.com")
		require.NoError(t, users.Save(ctx, u))
		require.NoError(t, users.SoftDelete(ctx, u.ID))

		_, err := users.ByID(ctx, u.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		// Natural-key lookup still sees the raw row.
		found, err := users.ByUsername(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, found.IsActive())
	})

	t.Run("UpdateReturnsDetachedCopy", func(t *testing.T) {
		u := memoryUser("copyme", "copyme@example.com")
		require.NoError(t, users.Save(ctx, u))

		name := "Renamed"
		updated, err := users.Update(ctx, u.ID, models.UserPatch{Fullname: &name})
		require.NoError(t, err)

		// Mutating the returned value must not leak into the store.
		updated.Fullname = "Mutated Locally"
		found, err := users.ByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", found.Fullname)
	})
}

func TestMemoryPostRepository(t *testing.T) {
	store := repository.NewMemoryStore()
	users := store.Users()
	posts := store.Posts()
	ctx := testingutil.CreateTestContext()

	owner := memoryUser("author", "author@example.com")
	require.NoError(t, users.Save(ctx, owner))
	stranger := memoryUser("stranger", "stranger@example.com")
	require.NoError(t, users.Save(ctx, stranger))

	newPost := func(title string) *models.Post {
		return &models.Post{Title: title, Content: "content", UserID: owner.ID}
	}

	t.Run("DuplicateTitleIsCaseInsensitive", func(t *testing.T) {
		require.NoError(t, posts.Save(ctx, newPost("Unique Title")))
		err := posts.Save(ctx, newPost("unique title"))
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("OwnershipGatesMutation", func(t *testing.T) {
		p := newPost("Guarded Post")
		require.NoError(t, posts.Save(ctx, p))

		title := "Stolen"
		_, err := posts.Update(ctx, p.ID, stranger.ID, models.PostPatch{Title: &title})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = posts.SoftDelete(ctx, p.ID, stranger.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, posts.SoftDelete(ctx, p.ID, owner.ID))
	})

	t.Run("ListPageClampsPastTheEnd", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, posts.Save(ctx, newPost(fmt.Sprintf("Paged %d", i))))
		}

		filter := models.PostFilter{UserID: &owner.ID}
		items, total, err := posts.ListPage(ctx, filter, repository.PageRequest{Page: 9, Size: 10})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.GreaterOrEqual(t, total, int64(3))
	})

	t.Run("ReplaceTagsReflectsInRelations", func(t *testing.T) {
		tags := store.Tags()
		resolved, err := tags.ResolveNames(ctx, owner.ID, []string{"memtag"})
		require.NoError(t, err)

		p := newPost("Tagged Post")
		require.NoError(t, posts.Save(ctx, p))
		require.NoError(t, posts.ReplaceTags(ctx, p, resolved))

		found, err := posts.ByIDWithRelations(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, found.Tags, 1)
		assert.Equal(t, "memtag", found.Tags[0].Name)

		require.NoError(t, posts.ReplaceTags(ctx, p, nil))
		found, err = posts.ByIDWithRelations(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Tags)
	})
}

func TestMemoryTagResolveNames(t *testing.T) {
	store := repository.NewMemoryStore()
	users := store.Users()
	tags := store.Tags()
	ctx := testingutil.CreateTestContext()

	owner := memoryUser("tagger", "tagger@example.com")
	require.NoError(t, users.Save(ctx, owner))

	t.Run("RevivesSoftDeleted", func(t *testing.T) {
		resolved, err := tags.ResolveNames(ctx, owner.ID, []string{"lazarus"})
		require.NoError(t, err)
		id := resolved[0].ID

		require.NoError(t, tags.SoftDelete(ctx, id, owner.ID))
		_, err = tags.ByName(ctx, "lazarus")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		resolved, err = tags.ResolveNames(ctx, owner.ID, []string{"lazarus"})
		require.NoError(t, err)
		assert.Equal(t, id, resolved[0].ID)

		revived, err := tags.ByName(ctx, "lazarus")
		require.NoError(t, err)
		assert.True(t, revived.IsActive())
	})

	t.Run("ConcurrentResolutionConverges", func(t *testing.T) {
		const workers = 8

		results := make([][]*models.Tag, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				resolved, err := tags.ResolveNames(ctx, owner.ID, []string{"contended"})
				if err == nil {
					results[i] = resolved
				}
			}(i)
		}
		wg.Wait()

		// Every worker must land on the same tag row.
		var winner uint
		for i, resolved := range results {
			require.Len(t, resolved, 1, "worker %d", i)
			if winner == 0 {
				winner = resolved[0].ID
			}
			assert.Equal(t, winner, resolved[0].ID)
		}

		count, err := tags.Count(ctx, models.TagFilter{})
		require.NoError(t, err)
		assert.LessOrEqual(t, count, int64(2)) // lazarus + contended only
	})
}
