package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
	testingutil "github.com/quillhub/quillhub/testing"
	"github.com/quillhub/quillhub/utils"
)

func TestUserRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewUserRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndByID", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			assert.NotZero(t, user.ID)

			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.ID, found.ID)
			assert.Equal(t, user.Username, found.Username)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			_, err := repo.ByID(ctx, 999999)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			dup := &models.User{
				Username:     user.Username,
				Fullname:     "Copy Cat",
				Email:        "different@example.com",
				PasswordHash: "hash",
			}
			err = repo.Save(ctx, dup)
			assert.ErrorIs(t, err, repository.ErrDuplicate)
		})

		t.Run("SoftDeleteHidesFromByID", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			require.NoError(t, repo.SoftDelete(ctx, user.ID))

			_, err = repo.ByID(ctx, user.ID)
			assert.ErrorIs(t, err, repository.ErrNotFound)

			// Lookups by natural key still see the raw row so a
			// deactivated username stays reserved.
			found, err := repo.ByUsername(ctx, user.Username)
			require.NoError(t, err)
			assert.False(t, found.IsActive())
		})

		t.Run("SoftDeleteTwiceFails", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			require.NoError(t, repo.SoftDelete(ctx, user.ID))
			err = repo.SoftDelete(ctx, user.ID)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		t.Run("RestoreReactivates", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			require.NoError(t, repo.SoftDelete(ctx, user.ID))
			require.NoError(t, repo.Restore(ctx, user.ID))

			found, err := repo.ByID(ctx, user.ID)
			require.NoError(t, err)
			assert.True(t, found.IsActive())
		})

		t.Run("PartialUpdatePreservesAbsentFields", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			bio := "Writes about databases"
			updated, err := repo.Update(ctx, user.ID, models.UserPatch{Bio: &bio})
			require.NoError(t, err)
			assert.Equal(t, user.Username, updated.Username)
			assert.Equal(t, user.Email, updated.Email)
			require.NotNil(t, updated.Bio)
			assert.Equal(t, bio, *updated.Bio)
		})

		t.Run("UpdateDeletedUserFails", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			require.NoError(t, repo.SoftDelete(ctx, user.ID))

			name := "Ghost"
			_, err = repo.Update(ctx, user.ID, models.UserPatch{Fullname: &name})
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPostRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPostRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("ByIDWithRelations", func(t *testing.T) {
			post, err := fixtures.CreateTestPost(owner.ID)
			require.NoError(t, err)
			tag, err := fixtures.CreateTestTag(owner.ID, "relations")
			require.NoError(t, err)
			require.NoError(t, fixtures.AttachTag(post.ID, tag.ID))

			found, err := repo.ByIDWithRelations(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, owner.Username, found.User.Username)
			require.Len(t, found.Tags, 1)
			assert.Equal(t, "relations", found.Tags[0].Name)
		})

		t.Run("UpdateByNonOwnerIsNotFound", func(t *testing.T) {
			post, err := fixtures.CreateTestPost(owner.ID)
			require.NoError(t, err)

			title := "Hijacked"
			_, err = repo.Update(ctx, post.ID, stranger.ID, models.PostPatch{Title: &title})
			assert.ErrorIs(t, err, repository.ErrNotFound)

			// The owner still sees the original title.
			found, err := repo.ByID(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, post.Title, found.Title)
		})

		t.Run("UpdateByOwner", func(t *testing.T) {
			post, err := fixtures.CreateTestPost(owner.ID)
			require.NoError(t, err)

			title := "Edited Title"
			updated, err := repo.Update(ctx, post.ID, owner.ID, models.PostPatch{Title: &title})
			require.NoError(t, err)
			assert.Equal(t, "Edited Title", updated.Title)
			assert.Equal(t, post.Content, updated.Content)
		})

		t.Run("SoftDeleteByNonOwnerIsNotFound", func(t *testing.T) {
			post, err := fixtures.CreateTestPost(owner.ID)
			require.NoError(t, err)

			err = repo.SoftDelete(ctx, post.ID, stranger.ID)
			assert.ErrorIs(t, err, repository.ErrNotFound)

			_, err = repo.ByID(ctx, post.ID)
			assert.NoError(t, err)
		})

		t.Run("SoftDeleteByOwner", func(t *testing.T) {
			post, err := fixtures.CreateTestPost(owner.ID)
			require.NoError(t, err)

			require.NoError(t, repo.SoftDelete(ctx, post.ID, owner.ID))

			_, err = repo.ByID(ctx, post.ID)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPostRepositoryPagination(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewPostRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		// Stagger creation times so the newest-first ordering is unambiguous.
		base := utils.UTCNow().Add(-time.Hour)
		var ids []uint
		for i := 0; i < 5; i++ {
			post, err := fixtures.CreateTestPost(owner.ID)
			require.NoError(t, err)
			createdAt := base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, testDB.DB.Exec(
				"UPDATE post SET created_at = ? WHERE id = ?", createdAt, post.ID,
			).Error)
			ids = append(ids, post.ID)
		}

		filter := models.PostFilter{UserID: &owner.ID}

		t.Run("FirstPageNewestFirst", func(t *testing.T) {
			items, total, err := repo.ListPage(ctx, filter, repository.PageRequest{Page: 1, Size: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)
			require.Len(t, items, 2)
			assert.Equal(t, ids[4], items[0].ID)
			assert.Equal(t, ids[3], items[1].ID)
		})

		t.Run("LastPartialPage", func(t *testing.T) {
			items, total, err := repo.ListPage(ctx, filter, repository.PageRequest{Page: 3, Size: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)
			require.Len(t, items, 1)
			assert.Equal(t, ids[0], items[0].ID)
		})

		t.Run("PageBeyondEndIsEmptyWithTrueTotal", func(t *testing.T) {
			items, total, err := repo.ListPage(ctx, filter, repository.PageRequest{Page: 10, Size: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)
			assert.Empty(t, items)
		})

		t.Run("SoftDeletedPostsLeaveTheTotal", func(t *testing.T) {
			require.NoError(t, repo.SoftDelete(ctx, ids[0], owner.ID))

			_, total, err := repo.ListPage(ctx, filter, repository.PageRequest{Page: 1, Size: 10})
			require.NoError(t, err)
			assert.Equal(t, int64(4), total)
		})

		t.Run("FilterByTagName", func(t *testing.T) {
			tag, err := fixtures.CreateTestTag(owner.ID, "golang")
			require.NoError(t, err)
			require.NoError(t, fixtures.AttachTag(ids[1], tag.ID))
			require.NoError(t, fixtures.AttachTag(ids[2], tag.ID))

			tagName := "golang"
			items, total, err := repo.ListPage(ctx, models.PostFilter{TagName: &tagName}, repository.PageRequest{Page: 1, Size: 10})
			require.NoError(t, err)
			assert.Equal(t, int64(2), total)
			require.Len(t, items, 2)
			assert.Equal(t, ids[2], items[0].ID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCommentRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewCommentRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		author, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		stranger, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		post, err := fixtures.CreateTestPost(author.ID)
		require.NoError(t, err)

		t.Run("ListByPostPage", func(t *testing.T) {
			for i := 0; i < 3; i++ {
				_, err := fixtures.CreateTestComment(author.ID, post.ID)
				require.NoError(t, err)
			}

			items, total, err := repo.ListByPostPage(ctx, post.ID, repository.PageRequest{Page: 1, Size: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			assert.Len(t, items, 2)
		})

		t.Run("UpdateByNonOwnerIsNotFound", func(t *testing.T) {
			comment, err := fixtures.CreateTestComment(author.ID, post.ID)
			require.NoError(t, err)

			content := "Vandalized"
			_, err = repo.Update(ctx, comment.ID, stranger.ID, models.CommentPatch{Content: &content})
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		t.Run("SoftDeleteRemovesFromListAndTotal", func(t *testing.T) {
			other, err := fixtures.CreateTestPost(author.ID)
			require.NoError(t, err)
			comment, err := fixtures.CreateTestComment(author.ID, other.ID)
			require.NoError(t, err)

			require.NoError(t, repo.SoftDelete(ctx, comment.ID, author.ID))

			items, total, err := repo.ListByPostPage(ctx, other.ID, repository.PageRequest{Page: 1, Size: 10})
			require.NoError(t, err)
			assert.Zero(t, total)
			assert.Empty(t, items)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTagRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		t.Run("ResolveNamesCreatesMissing", func(t *testing.T) {
			tags, err := repo.ResolveNames(ctx, owner.ID, []string{"alpha", "beta"})
			require.NoError(t, err)
			require.Len(t, tags, 2)
			assert.NotZero(t, tags[0].ID)
			assert.Equal(t, owner.ID, tags[0].UserID)
		})

		t.Run("ResolveNamesDedupsInput", func(t *testing.T) {
			tags, err := repo.ResolveNames(ctx, owner.ID, []string{"gamma", "gamma", "gamma"})
			require.NoError(t, err)
			assert.Len(t, tags, 1)
		})

		t.Run("ResolveNamesIsIdempotent", func(t *testing.T) {
			first, err := repo.ResolveNames(ctx, owner.ID, []string{"delta"})
			require.NoError(t, err)
			second, err := repo.ResolveNames(ctx, owner.ID, []string{"delta"})
			require.NoError(t, err)
			assert.Equal(t, first[0].ID, second[0].ID)
		})

		t.Run("ResolveNamesRevivesSoftDeleted", func(t *testing.T) {
			tag, err := fixtures.CreateTestTag(owner.ID, "phoenix")
			require.NoError(t, err)
			require.NoError(t, repo.SoftDelete(ctx, tag.ID, owner.ID))

			_, err = repo.ByName(ctx, "phoenix")
			assert.ErrorIs(t, err, repository.ErrNotFound)

			resolved, err := repo.ResolveNames(ctx, owner.ID, []string{"phoenix"})
			require.NoError(t, err)
			require.Len(t, resolved, 1)
			assert.Equal(t, tag.ID, resolved[0].ID)

			revived, err := repo.ByName(ctx, "phoenix")
			require.NoError(t, err)
			assert.True(t, revived.IsActive())
		})

		t.Run("ByNameExcludesSoftDeleted", func(t *testing.T) {
			tag, err := fixtures.CreateTestTag(owner.ID, "shadow")
			require.NoError(t, err)
			require.NoError(t, repo.SoftDelete(ctx, tag.ID, owner.ID))

			_, err = repo.ByName(ctx, "shadow")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		t.Run("UpdateToTakenNameIsDuplicate", func(t *testing.T) {
			_, err := fixtures.CreateTestTag(owner.ID, "taken")
			require.NoError(t, err)
			tag, err := fixtures.CreateTestTag(owner.ID, "renameme")
			require.NoError(t, err)

			name := "taken"
			_, err = repo.Update(ctx, tag.ID, owner.ID, models.TagPatch{Name: &name})
			assert.ErrorIs(t, err, repository.ErrDuplicate)
		})

		t.Run("SoftDeleteByNonOwnerIsNotFound", func(t *testing.T) {
			stranger, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			tag, err := fixtures.CreateTestTag(owner.ID, "guarded")
			require.NoError(t, err)

			err = repo.SoftDelete(ctx, tag.ID, stranger.ID)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}

// Post create and update resolve tag names inside the caller's transaction,
// so the speculative insert has to survive there: it runs in a nested
// transaction and its writes must commit and roll back with the outer one.
func TestTagResolveNamesInTransaction(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewTagRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		owner, err := fixtures.CreateTestUser()
		require.NoError(t, err)

		_, err = fixtures.CreateTestTag(owner.ID, "standing")
		require.NoError(t, err)

		t.Run("CreatesAndReusesInsideTransaction", func(t *testing.T) {
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				tags, err := repo.ResolveNames(txCtx, owner.ID, []string{"standing", "fresh"})
				require.NoError(t, err)
				require.Len(t, tags, 2)
				assert.NotZero(t, tags[1].ID)
				return nil
			})
			require.NoError(t, err)

			tag, err := repo.ByName(ctx, "fresh")
			require.NoError(t, err)
			assert.True(t, tag.IsActive())
		})

		t.Run("RollbackDiscardsResolvedCreates", func(t *testing.T) {
			sentinel := errors.New("abort")
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				_, err := repo.ResolveNames(txCtx, owner.ID, []string{"discarded"})
				require.NoError(t, err)
				return sentinel
			})
			assert.ErrorIs(t, err, sentinel)

			_, err = repo.ByName(ctx, "discarded")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}
