package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/utils"
)

// MemoryStore is an in-process implementation of the repository interfaces
// backed by a single shared mapping per entity. It exists for tests and
// single-process experiments only; it is explicitly not the production store.
//
// Duplicate pre-checks scan active and soft-deleted entries alike, matching
// the raw-column uniqueness of the database-backed repositories. The
// in-memory variant additionally treats post titles as a natural key.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[uint]*models.User
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
	tags     map[uint]*models.Tag
	postTags map[uint]map[uint]struct{} // post id -> attached tag ids
	seq      uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uint]*models.User),
		posts:    make(map[uint]*models.Post),
		comments: make(map[uint]*models.Comment),
		tags:     make(map[uint]*models.Tag),
		postTags: make(map[uint]map[uint]struct{}),
	}
}

func (s *MemoryStore) nextID() uint {
	s.seq++
	return s.seq
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{store: s} }

// Posts returns the post repository view of the store.
func (s *MemoryStore) Posts() PostRepository { return &memoryPostRepository{store: s} }

// Comments returns the comment repository view of the store.
func (s *MemoryStore) Comments() CommentRepository { return &memoryCommentRepository{store: s} }

// Tags returns the tag repository view of the store.
func (s *MemoryStore) Tags() TagRepository { return &memoryTagRepository{store: s} }

func stampNew(l *models.Lifecycle) {
	now := utils.UTCNow()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = now
	}
}

// --- users ---

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || !u.IsActive() {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *memoryUserRepository) ListActive(ctx context.Context) ([]*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.User
	for _, u := range s.users {
		if u.IsActive() {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memoryUserRepository) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.User
	for _, u := range s.users {
		if filter.ID != nil && u.ID != *filter.ID {
			continue
		}
		if filter.Username != nil && u.Username != *filter.Username {
			continue
		}
		if filter.Email != nil && u.Email != *filter.Email {
			continue
		}
		if filter.Active != nil && u.IsActive() != *filter.Active {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	return clampSlice(out, limit, offset), nil
}

func (r *memoryUserRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *memoryUserRepository) Save(ctx context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Pre-check scans every entry, soft-deleted included.
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrDuplicate
		}
	}

	user.ID = s.nextID()
	stampNew(&user.Lifecycle)
	c := *user
	s.users[user.ID] = &c
	return nil
}

func (r *memoryUserRepository) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || !u.IsActive() {
		return nil, ErrNotFound
	}

	if patch.Username != nil && *patch.Username != u.Username {
		for _, existing := range s.users {
			if existing.ID != id && existing.Username == *patch.Username {
				return nil, ErrDuplicate
			}
		}
	}
	if patch.Email != nil && *patch.Email != u.Email {
		for _, existing := range s.users {
			if existing.ID != id && existing.Email == *patch.Email {
				return nil, ErrDuplicate
			}
		}
	}

	u.Apply(patch)
	u.UpdatedAt = utils.UTCNow()
	out := *u
	return &out, nil
}

func (r *memoryUserRepository) SoftDelete(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || !u.IsActive() {
		return ErrNotFound
	}
	u.Lifecycle.SoftDelete(utils.UTCNow())
	return nil
}

func (r *memoryUserRepository) Restore(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Lifecycle.Restore()
	return nil
}

func (r *memoryUserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// --- posts ---

type memoryPostRepository struct {
	store *MemoryStore
}

func (r *memoryPostRepository) ByID(ctx context.Context, id uint) (*models.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || !p.IsActive() {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *memoryPostRepository) ByIDWithRelations(ctx context.Context, id uint) (*models.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || !p.IsActive() {
		return nil, ErrNotFound
	}
	out := *p
	if owner, ok := s.users[p.UserID]; ok {
		out.User = *owner
	}
	out.Tags = s.tagsOfLocked(p.ID)
	return &out, nil
}

// tagsOfLocked collects the tags attached to a post. Caller holds the lock.
func (s *MemoryStore) tagsOfLocked(postID uint) []models.Tag {
	ids := s.postTags[postID]
	out := make([]models.Tag, 0, len(ids))
	for tagID := range ids {
		if t, ok := s.tags[tagID]; ok {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryPostRepository) ListActive(ctx context.Context) ([]*models.Post, error) {
	return r.list(models.PostFilter{})
}

func (r *memoryPostRepository) list(filter models.PostFilter) ([]*models.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Post
	for _, p := range s.posts {
		if !p.IsActive() {
			continue
		}
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		if filter.TagName != nil && !s.postHasTagLocked(p.ID, *filter.TagName) {
			continue
		}
		c := *p
		if owner, ok := s.users[p.UserID]; ok {
			c.User = *owner
		}
		c.Tags = s.tagsOfLocked(p.ID)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) postHasTagLocked(postID uint, name string) bool {
	for tagID := range s.postTags[postID] {
		if t, ok := s.tags[tagID]; ok && t.Name == name {
			return true
		}
	}
	return false
}

func (r *memoryPostRepository) ListPage(ctx context.Context, filter models.PostFilter, page PageRequest) ([]*models.Post, int64, error) {
	rows, err := r.list(filter)
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(rows))
	return clampSlice(rows, page.Size, page.Offset()), total, nil
}

func (r *memoryPostRepository) ByFilter(ctx context.Context, filter models.PostFilter, orderBy string, limit, offset int) ([]*models.Post, error) {
	rows, err := r.list(filter)
	if err != nil {
		return nil, err
	}
	return clampSlice(rows, limit, offset), nil
}

func (r *memoryPostRepository) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	rows, err := r.list(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *memoryPostRepository) Save(ctx context.Context, post *models.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.posts {
		if strings.EqualFold(existing.Title, post.Title) {
			return ErrDuplicate
		}
	}

	post.ID = s.nextID()
	stampNew(&post.Lifecycle)

	attached := make(map[uint]struct{}, len(post.Tags))
	for _, t := range post.Tags {
		attached[t.ID] = struct{}{}
	}
	s.postTags[post.ID] = attached

	c := *post
	c.Tags = nil
	s.posts[post.ID] = &c
	return nil
}

func (r *memoryPostRepository) Update(ctx context.Context, id, ownerID uint, patch models.PostPatch) (*models.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || !p.IsActive() || p.UserID != ownerID {
		return nil, ErrNotFound
	}

	p.Apply(patch)
	p.UpdatedAt = utils.UTCNow()
	out := *p
	out.Tags = s.tagsOfLocked(id)
	return &out, nil
}

func (r *memoryPostRepository) ReplaceTags(ctx context.Context, post *models.Post, tags []*models.Tag) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	attached := make(map[uint]struct{}, len(tags))
	for _, t := range tags {
		attached[t.ID] = struct{}{}
	}
	s.postTags[post.ID] = attached
	return nil
}

func (r *memoryPostRepository) SoftDelete(ctx context.Context, id, ownerID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || !p.IsActive() || p.UserID != ownerID {
		return ErrNotFound
	}
	p.Lifecycle.SoftDelete(utils.UTCNow())
	return nil
}

func (r *memoryPostRepository) Restore(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return ErrNotFound
	}
	p.Lifecycle.Restore()
	return nil
}

// --- comments ---

type memoryCommentRepository struct {
	store *MemoryStore
}

func (r *memoryCommentRepository) ByID(ctx context.Context, id uint) (*models.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || !c.IsActive() {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *memoryCommentRepository) ListActive(ctx context.Context) ([]*models.Comment, error) {
	return r.list(models.CommentFilter{})
}

func (r *memoryCommentRepository) list(filter models.CommentFilter) ([]*models.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Comment
	for _, c := range s.comments {
		if !c.IsActive() {
			continue
		}
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		if filter.PostID != nil && c.PostID != *filter.PostID {
			continue
		}
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memoryCommentRepository) ListByPostPage(ctx context.Context, postID uint, page PageRequest) ([]*models.Comment, int64, error) {
	rows, err := r.list(models.CommentFilter{PostID: &postID})
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(rows))
	return clampSlice(rows, page.Size, page.Offset()), total, nil
}

func (r *memoryCommentRepository) ByFilter(ctx context.Context, filter models.CommentFilter, orderBy string, limit, offset int) ([]*models.Comment, error) {
	rows, err := r.list(filter)
	if err != nil {
		return nil, err
	}
	return clampSlice(rows, limit, offset), nil
}

func (r *memoryCommentRepository) Count(ctx context.Context, filter models.CommentFilter) (int64, error) {
	rows, err := r.list(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *memoryCommentRepository) Save(ctx context.Context, comment *models.Comment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.ID = s.nextID()
	stampNew(&comment.Lifecycle)
	c := *comment
	s.comments[comment.ID] = &c
	return nil
}

func (r *memoryCommentRepository) Update(ctx context.Context, id, ownerID uint, patch models.CommentPatch) (*models.Comment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || !c.IsActive() || c.UserID != ownerID {
		return nil, ErrNotFound
	}

	c.Apply(patch)
	c.UpdatedAt = utils.UTCNow()
	out := *c
	return &out, nil
}

func (r *memoryCommentRepository) SoftDelete(ctx context.Context, id, ownerID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || !c.IsActive() || c.UserID != ownerID {
		return ErrNotFound
	}
	c.Lifecycle.SoftDelete(utils.UTCNow())
	return nil
}

func (r *memoryCommentRepository) Restore(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return ErrNotFound
	}
	c.Lifecycle.Restore()
	return nil
}

// --- tags ---

type memoryTagRepository struct {
	store *MemoryStore
}

func (r *memoryTagRepository) ByID(ctx context.Context, id uint) (*models.Tag, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok || !t.IsActive() {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

func (r *memoryTagRepository) ListActive(ctx context.Context) ([]*models.Tag, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Tag
	for _, t := range s.tags {
		if t.IsActive() {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memoryTagRepository) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Tag
	for _, t := range s.tags {
		if filter.ID != nil && t.ID != *filter.ID {
			continue
		}
		if filter.Name != nil && t.Name != *filter.Name {
			continue
		}
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.Active != nil && t.IsActive() != *filter.Active {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return clampSlice(out, limit, offset), nil
}

func (r *memoryTagRepository) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *memoryTagRepository) Save(ctx context.Context, tag *models.Tag) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.saveLocked(tag)
}

func (r *memoryTagRepository) saveLocked(tag *models.Tag) error {
	s := r.store
	for _, existing := range s.tags {
		if existing.Name == tag.Name {
			return ErrDuplicate
		}
	}

	tag.ID = s.nextID()
	stampNew(&tag.Lifecycle)
	c := *tag
	s.tags[tag.ID] = &c
	return nil
}

func (r *memoryTagRepository) ByName(ctx context.Context, name string) (*models.Tag, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tags {
		if t.Name == name && t.IsActive() {
			c := *t
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// ResolveNames mirrors the database resolver. The store lock serializes
// concurrent resolution, so the create-or-fetch race settles without a
// retry here.
func (r *memoryTagRepository) ResolveNames(ctx context.Context, ownerID uint, names []string) ([]*models.Tag, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(names))
	resolved := make([]*models.Tag, 0, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var match *models.Tag
		for _, t := range s.tags {
			if t.Name == name {
				match = t
				break
			}
		}

		if match != nil {
			match.Lifecycle.Restore()
			c := *match
			resolved = append(resolved, &c)
			continue
		}

		tag := &models.Tag{Name: name, UserID: ownerID}
		if err := r.saveLocked(tag); err != nil {
			return nil, err
		}
		resolved = append(resolved, tag)
	}

	return resolved, nil
}

func (r *memoryTagRepository) Update(ctx context.Context, id, ownerID uint, patch models.TagPatch) (*models.Tag, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok || !t.IsActive() || t.UserID != ownerID {
		return nil, ErrNotFound
	}

	if patch.Name != nil && *patch.Name != t.Name {
		for _, existing := range s.tags {
			if existing.ID != id && existing.Name == *patch.Name {
				return nil, ErrDuplicate
			}
		}
	}

	t.Apply(patch)
	t.UpdatedAt = utils.UTCNow()
	out := *t
	return &out, nil
}

func (r *memoryTagRepository) SoftDelete(ctx context.Context, id, ownerID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok || !t.IsActive() || t.UserID != ownerID {
		return ErrNotFound
	}
	t.Lifecycle.SoftDelete(utils.UTCNow())
	return nil
}

func (r *memoryTagRepository) Restore(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok {
		return ErrNotFound
	}
	t.Lifecycle.Restore()
	return nil
}

// clampSlice applies limit/offset semantics to an already ordered slice.
func clampSlice[T any](items []*T, limit, offset int) []*T {
	if offset > 0 {
		if offset >= len(items) {
			return []*T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
