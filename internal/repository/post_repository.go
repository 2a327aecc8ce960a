package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"findhouse/internal/model"
)

// PostRepository defines listing persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Save(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PostStatus) error
	ListByStatus(ctx context.Context, status model.PostStatus) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]model.Post, error)
	ListByAuthorAndStatus(ctx context.Context, authorID uint, status model.PostStatus) ([]model.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	CountByAuthorAndStatus(ctx context.Context, authorID uint, status model.PostStatus) (int64, error)
	Search(ctx context.Context, filter SearchFilter) ([]model.Post, int64, error)
	AddRating(ctx context.Context, id uuid.UUID, stars int) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create persists a new listing together with its image rows.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Save updates an existing listing.
func (r *postRepository) Save(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// FindByID finds a listing by ID with its images and ratings.
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Ratings").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a listing. Image and rating rows cascade.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdateStatus transitions a listing's moderation status. Setting an already
// approved listing to approved is a no-op at the data level, so concurrent
// approvals are idempotent.
func (r *postRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PostStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// ListByStatus returns all listings in the given moderation state, most
// recent first.
func (r *postRepository) ListByStatus(ctx context.Context, status model.PostStatus) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns all listings created by the given user.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthorAndStatus returns the author's listings in one moderation state.
func (r *postRepository) ListByAuthorAndStatus(ctx context.Context, authorID uint, status model.PostStatus) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("author_id = ? AND status = ?", authorID, status).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) CountByAuthorAndStatus(ctx context.Context, authorID uint, status model.PostStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id = ? AND status = ?", authorID, status).
		Count(&count).Error
	return count, err
}

// applyFilter translates the optional search predicates into query
// conditions. It is called once for the count and once for the page so the
// two queries stay in sync.
func applyFilter(db *gorm.DB, f SearchFilter) *gorm.DB {
	q := db.Model(&model.Post{}).Where("status = ?", f.Status)
	if f.MinPrice != nil {
		q = q.Where("price >= ?", f.MinPrice.InexactFloat64())
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", f.MaxPrice.InexactFloat64())
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Keyword != "" {
		kw := "%" + strings.ToLower(f.Keyword) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(note) LIKE ? OR LOWER(location) LIKE ?",
			kw, kw, kw, kw,
		)
	}
	return q
}

// Search returns one page of matching listings plus the total match count
// irrespective of paging.
func (r *postRepository) Search(ctx context.Context, filter SearchFilter) ([]model.Post, int64, error) {
	filter.Normalize()

	var total int64
	if err := applyFilter(r.db.WithContext(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := applyFilter(r.db.WithContext(ctx), filter).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, total, nil
}

// AddRating appends a rating row and folds it into the denormalized average
// in a single UPDATE, so concurrent raters cannot lose each other's update.
func (r *postRepository) AddRating(ctx context.Context, id uuid.UUID, stars int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"rating_avg":   gorm.Expr("(rating_avg * rating_count + ?) / (rating_count + 1)", stars),
				"rating_count": gorm.Expr("rating_count + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&model.Rating{PostID: id, Stars: stars}).Error
	})
}
