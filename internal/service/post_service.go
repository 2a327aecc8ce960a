package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"findhouse/internal/auth"
	"findhouse/internal/cache"
	apperrors "findhouse/internal/errors"
	"findhouse/internal/model"
	"findhouse/internal/repository"
)

const (
	approvedFeedCacheKey = "posts:approved"
	approvedFeedCacheTTL = 30 * time.Second
)

// ImageRemover removes a stored image referenced by its public URL. Post
// deletion uses it best-effort.
type ImageRemover interface {
	DeleteByURL(ctx context.Context, url string) error
}

// CreatePostInput carries the caller-supplied listing fields. Status is
// deliberately absent: a new listing is always pending, whatever the request
// body claimed.
type CreatePostInput struct {
	Title    string
	Content  string
	Note     string
	Location string
	Price    *decimal.Decimal
	Images   []string
}

// UpdatePostInput carries the mutable listing fields; nil means unchanged.
type UpdatePostInput struct {
	Title    *string
	Content  *string
	Note     *string
	Location *string
	Price    *decimal.Decimal
}

// SearchResult is one page of matching listings plus the total match count,
// from which callers derive the page count.
type SearchResult struct {
	Results []model.Post `json:"results"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}

// PostService handles the listing lifecycle: creation, moderation, search,
// ratings and deletion.
type PostService interface {
	Create(ctx context.Context, claims *auth.Claims, in CreatePostInput) (*model.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Post, error)
	ListPending(ctx context.Context) ([]model.Post, error)
	ListApproved(ctx context.Context) ([]model.Post, error)
	Approve(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Update(ctx context.Context, claims *auth.Claims, id uuid.UUID, in UpdatePostInput) (*model.Post, error)
	Delete(ctx context.Context, claims *auth.Claims, id uuid.UUID) error
	Search(ctx context.Context, filter repository.SearchFilter) (*SearchResult, error)
	Rate(ctx context.Context, id uuid.UUID, stars int) (*model.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	cache    *cache.Client
	images   ImageRemover
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, cache *cache.Client, images ImageRemover) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		cache:    cache,
		images:   images,
	}
}

// Create persists a new listing in pending state. The author identity comes
// from the verified token claims, never from the request body; the display
// name is snapshotted from the user store at creation time.
func (s *postService) Create(ctx context.Context, claims *auth.Claims, in CreatePostInput) (*model.Post, error) {
	if len(in.Images) > model.MaxPostImages {
		return nil, apperrors.ErrTooManyImages
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, apperrors.ErrInvalidPrice
	}

	author, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	post := &model.Post{
		Title:    in.Title,
		Content:  in.Content,
		Note:     in.Note,
		Location: in.Location,
		Price:    in.Price,
		Author:   author.Name,
		AuthorID: author.ID,
		Status:   model.PostStatusPending,
	}
	for i, url := range in.Images {
		post.Images = append(post.Images, model.PostImage{URL: url, Position: i})
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns a single listing with images and ratings.
func (s *postService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// ListPending returns the moderation queue, most recent first.
func (s *postService) ListPending(ctx context.Context) ([]model.Post, error) {
	return s.postRepo.ListByStatus(ctx, model.PostStatusPending)
}

// ListApproved returns the public listing feed with a short-lived cache in
// front of the store.
func (s *postService) ListApproved(ctx context.Context) ([]model.Post, error) {
	if data, _ := s.cache.Get(ctx, approvedFeedCacheKey); data != nil {
		var cached []model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	posts, err := s.postRepo.ListByStatus(ctx, model.PostStatusApproved)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(posts); err == nil {
		_ = s.cache.Set(ctx, approvedFeedCacheKey, payload, approvedFeedCacheTTL)
	}
	return posts, nil
}

// Approve transitions a pending listing to approved. The admin gate sits in
// the route middleware; the transition itself is idempotent.
func (s *postService) Approve(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	if err := s.postRepo.UpdateStatus(ctx, id, model.PostStatusApproved); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	s.invalidateApprovedFeed(ctx)
	return s.Get(ctx, id)
}

// Update mutates the mutable listing fields. Ownership is enforced the same
// way as for deletion: only the author or an admin may touch a listing.
func (s *postService) Update(ctx context.Context, claims *auth.Claims, id uuid.UUID, in UpdatePostInput) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != claims.UserID && !claims.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Note != nil {
		post.Note = *in.Note
	}
	if in.Location != nil {
		post.Location = *in.Location
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperrors.ErrInvalidPrice
		}
		post.Price = in.Price
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	s.invalidateApprovedFeed(ctx)
	return post, nil
}

// Delete removes a listing from either moderation state. Stored image files
// are cleaned up best-effort; a failed file removal is logged, never
// propagated.
func (s *postService) Delete(ctx context.Context, claims *auth.Claims, id uuid.UUID) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != claims.UserID && !claims.IsAdmin() {
		return apperrors.ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPostNotFound
		}
		return err
	}

	if s.images != nil {
		for _, img := range post.Images {
			if err := s.images.DeleteByURL(ctx, img.URL); err != nil {
				log.Printf("delete image %s for post %s: %v", img.URL, id, err)
			}
		}
	}

	s.invalidateApprovedFeed(ctx)
	return nil
}

// Search runs the filtered, paged listing query.
func (s *postService) Search(ctx context.Context, filter repository.SearchFilter) (*SearchResult, error) {
	filter.Normalize()
	posts, total, err := s.postRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Results: posts,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}, nil
}

// Rate appends a 1-5 star rating. Any caller may rate; there is no dedup or
// ownership check on ratings.
func (s *postService) Rate(ctx context.Context, id uuid.UUID, stars int) (*model.Post, error) {
	if stars < 1 || stars > 5 {
		return nil, apperrors.ErrInvalidRating
	}
	if err := s.postRepo.AddRating(ctx, id, stars); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *postService) invalidateApprovedFeed(ctx context.Context) {
	_ = s.cache.Delete(ctx, approvedFeedCacheKey)
}
