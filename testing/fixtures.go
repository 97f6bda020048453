// Package testing provides test utilities and database setup for testing the content service
package testing

import (
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestUser creates an active user with a unique username and email.
// The password behind the stored hash is always "TestPass123!".
func (tf *TestFixtures) CreateTestUser() (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%06d", rand.Intn(1000000))
	now := utils.UTCNow()

	user := &models.User{
		Username:     fmt.Sprintf("writer_%s", suffix),
		Fullname:     "Test Writer",
		Email:        fmt.Sprintf("writer.%s@example.com", suffix),
		PasswordHash: string(hashedPassword),
		Lifecycle: models.Lifecycle{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestPost creates an active post owned by the given user.
func (tf *TestFixtures) CreateTestPost(userID uint) (*models.Post, error) {
	suffix := fmt.Sprintf("%06d", rand.Intn(1000000))
	now := utils.UTCNow()

	post := &models.Post{
		Title:   fmt.Sprintf("Test Post %s", suffix),
		Content: "Some test content that is long enough to look real.",
		UserID:  userID,
		Lifecycle: models.Lifecycle{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := tf.DB.DB.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create test post: %w", err)
	}

	return post, nil
}

// CreateTestComment creates an active comment on the given post by the given user.
func (tf *TestFixtures) CreateTestComment(userID, postID uint) (*models.Comment, error) {
	now := utils.UTCNow()

	comment := &models.Comment{
		Content: "A thoughtful test comment.",
		UserID:  userID,
		PostID:  postID,
		Lifecycle: models.Lifecycle{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := tf.DB.DB.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test comment: %w", err)
	}

	return comment, nil
}

// CreateTestTag creates an active tag owned by the given user.
func (tf *TestFixtures) CreateTestTag(userID uint, name string) (*models.Tag, error) {
	now := utils.UTCNow()

	tag := &models.Tag{
		Name:   name,
		UserID: userID,
		Lifecycle: models.Lifecycle{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := tf.DB.DB.Create(tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tag: %w", err)
	}

	return tag, nil
}

// AttachTag links a tag to a post through the join table.
func (tf *TestFixtures) AttachTag(postID, tagID uint) error {
	if err := tf.DB.DB.Exec(
		"INSERT INTO post_tag (post_id, tag_id) VALUES (?, ?)", postID, tagID,
	).Error; err != nil {
		return fmt.Errorf("failed to attach tag %d to post %d: %w", tagID, postID, err)
	}
	return nil
}
