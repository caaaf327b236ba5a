package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/repository"
)

const (
	MinTitleLength = 3
	MaxTitleLength = 255
)

// PostService implements the core blogging rules: who may touch a post,
// what a valid post looks like, and how listings are paginated.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, logger: logger}
}

// List returns one page of posts, newest first, plus the total count.
//
// The offset is (page-1)*limit exactly as given. page=0 yields a negative
// offset and page=1 with a negative limit yields an unbounded query — both
// are passed through to the store untouched. Sanitizing here would silently
// change what clients already observe.
func (s *PostService) List(ctx context.Context, page, limit int) ([]model.Post, int, error) {
	return s.posts.List(ctx, pageOptions(page, limit))
}

// GetByID returns a single post with its owner and category attached.
func (s *PostService) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// PostInput carries the fields accepted when creating a post. The owner
// comes from the authenticated identity, never from the request body.
type PostInput struct {
	Title         string
	Content       string
	CategoryID    *int64
	FeaturedImage *string
}

// Create validates the input and inserts a post owned by the caller.
//
// READ-AFTER-WRITE:
// The insert doesn't know the owner's username or the category's name, so
// we re-read the post to return it fully enriched. One extra query per
// create is a fine price for handlers never assembling joins themselves.
func (s *PostService) Create(ctx context.Context, identity model.Identity, input PostInput) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperror.ValidationFailed("content", "Content is required")
	}
	if input.FeaturedImage != nil {
		if err := validateImageURL(*input.FeaturedImage); err != nil {
			return nil, err
		}
	}

	post := &model.Post{
		Title:         title,
		Content:       input.Content,
		CategoryID:    input.CategoryID,
		FeaturedImage: input.FeaturedImage,
		UserID:        identity.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.Int64("userID", identity.ID),
	)

	return s.posts.GetByID(ctx, post.ID)
}

// PostUpdate carries the fields a PUT may change. Nil means "leave as is".
// Two fields support explicit clearing: CategoryID of 0 detaches the post
// from its category, and an empty FeaturedImage removes the image.
type PostUpdate struct {
	Title         *string
	Content       *string
	CategoryID    *int64
	FeaturedImage *string
}

// Update applies a partial update to a post the caller owns.
//
// OWNERSHIP CHECK ORDER:
// Existence is checked before ownership, so a missing post is a 404 even
// for callers who wouldn't have been allowed to touch it. Ownership never
// changes — there is no field for it in PostUpdate.
func (s *PostService) Update(ctx context.Context, identity model.Identity, id int64, update PostUpdate) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != identity.ID {
		return nil, apperror.Forbidden("You are not authorized to update this post")
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		post.Title = title
	}
	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			return nil, apperror.ValidationFailed("content", "Content is required")
		}
		post.Content = *update.Content
	}
	if update.CategoryID != nil {
		if *update.CategoryID == 0 {
			post.CategoryID = nil
		} else {
			post.CategoryID = update.CategoryID
		}
	}
	if update.FeaturedImage != nil {
		if *update.FeaturedImage == "" {
			post.FeaturedImage = nil
		} else {
			if err := validateImageURL(*update.FeaturedImage); err != nil {
				return nil, err
			}
			post.FeaturedImage = update.FeaturedImage
		}
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

// Delete removes a post the caller owns.
func (s *PostService) Delete(ctx context.Context, identity model.Identity, id int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != identity.ID {
		return apperror.Forbidden("You are not authorized to delete this post")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("post deleted",
		slog.Int64("postID", id),
		slog.Int64("userID", identity.ID),
	)
	return nil
}

// ListByOwner returns every post belonging to the caller, newest first.
// This is a dashboard view, not a paginated feed.
func (s *PostService) ListByOwner(ctx context.Context, identity model.Identity) ([]model.Post, error) {
	return s.posts.ListByUser(ctx, identity.ID)
}

// ListByCategory returns one page of posts in the given category.
// An unknown category id is an empty page, not an error.
func (s *PostService) ListByCategory(ctx context.Context, categoryID int64, page, limit int) ([]model.Post, int, error) {
	return s.posts.ListByCategory(ctx, categoryID, pageOptions(page, limit))
}

// Search finds posts whose title or content contains the query.
func (s *PostService) Search(ctx context.Context, query string) ([]model.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.ValidationFailed("q", "Search query is required")
	}
	return s.posts.Search(ctx, query)
}

func pageOptions(page, limit int) repository.ListOptions {
	return repository.ListOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func validateTitle(title string) error {
	if len(title) < MinTitleLength || len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("Title must be between %d and %d characters", MinTitleLength, MaxTitleLength))
	}
	return nil
}

func validateImageURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperror.ValidationFailed("featured_image", "Featured image must be a valid URL")
	}
	return nil
}
