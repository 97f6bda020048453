package businessflow

import (
	"github.com/quillhub/quillhub/app/dto"
	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
)

// NormalizePage validates the requested page coordinates and fills in the
// defaults for absent values. A page beyond the data is not an error; it
// simply yields an empty page with the true total.
func NormalizePage(page, size int) (repository.PageRequest, error) {
	if page == 0 {
		page = repository.DefaultPage
	}
	if size == 0 {
		size = repository.DefaultPageSize
	}
	if page < 1 {
		return repository.PageRequest{}, ErrInvalidPage
	}
	if size < repository.MinPageSize || size > repository.MaxPageSize {
		return repository.PageRequest{}, ErrInvalidPageSize
	}
	return repository.PageRequest{Page: page, Size: size}, nil
}

// ToUserDTO converts a user model to its API representation.
func ToUserDTO(user *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Fullname:  user.Fullname,
		Email:     user.Email,
		Bio:       user.Bio,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToPostDTO converts a post model to its API representation. The author is
// included only when the relation was loaded.
func ToPostDTO(post *models.Post) dto.PostDTO {
	out := dto.PostDTO{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		UserID:    post.UserID,
		Tags:      make([]dto.TagDTO, 0, len(post.Tags)),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if post.User.ID != 0 {
		author := ToUserDTO(&post.User)
		out.Author = &author
	}
	for i := range post.Tags {
		out.Tags = append(out.Tags, ToTagDTO(&post.Tags[i]))
	}
	return out
}

// ToCommentDTO converts a comment model to its API representation.
func ToCommentDTO(comment *models.Comment) dto.CommentDTO {
	return dto.CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		UserID:    comment.UserID,
		PostID:    comment.PostID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// ToTagDTO converts a tag model to its API representation.
func ToTagDTO(tag *models.Tag) dto.TagDTO {
	return dto.TagDTO{
		ID:        tag.ID,
		Name:      tag.Name,
		UserID:    tag.UserID,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

// NewPaginatedResponse assembles one page of mapped items with its totals.
func NewPaginatedResponse[M any, D any](items []*M, total int64, page repository.PageRequest, mapFn func(*M) D) *dto.PaginatedResponse[D] {
	out := &dto.PaginatedResponse[D]{
		Items: make([]D, 0, len(items)),
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
		Pages: repository.TotalPages(total, page.Size),
	}
	for _, item := range items {
		out.Items = append(out.Items, mapFn(item))
	}
	return out
}
