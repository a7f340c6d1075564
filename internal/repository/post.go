// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"wallmirror/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for mirrored post data operations.
type PostRepository interface {
	// GetByID returns the stored post or (nil, nil) when no row exists.
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	// Upsert inserts the post or, on a post_id conflict, overwrites
	// date, text, repost_source_name and updated_at in one atomic statement.
	Upsert(ctx context.Context, post *models.Post) error
	// DeleteImages removes all image rows for the post.
	DeleteImages(ctx context.Context, postID int64) error
	// AddImage inserts one image row.
	AddImage(ctx context.Context, image *models.PostImage) error
	// AddAudio inserts one audio row. Audio is additive; rows are never
	// cleared before repopulation.
	AddAudio(ctx context.Context, audio *models.PostAudio) error
	// List returns posts ordered by date descending with their attachments.
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	// Latest returns the chronologically latest post (id as tie-break),
	// or (nil, nil) when the table is empty.
	Latest(ctx context.Context) (*models.Post, error)
	// Count returns the number of stored posts.
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, "post_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("load post", err)
	}
	return &post, nil
}

func (r *postRepository) Upsert(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "text", "repost_source_name", "updated_at"}),
	}).Create(post).Error
	if err != nil {
		return models.NewStorageError("upsert post", err)
	}
	return nil
}

func (r *postRepository) DeleteImages(ctx context.Context, postID int64) error {
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostImage{}).Error
	if err != nil {
		return models.NewStorageError("delete post images", err)
	}
	return nil
}

func (r *postRepository) AddImage(ctx context.Context, image *models.PostImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return models.NewStorageError("insert post image", err)
	}
	return nil
}

func (r *postRepository) AddAudio(ctx context.Context, audio *models.PostAudio) error {
	if err := r.db.WithContext(ctx).Create(audio).Error; err != nil {
		return models.NewStorageError("insert post audio", err)
	}
	return nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Audio").
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStorageError("list posts", err)
	}
	return posts, nil
}

func (r *postRepository) Latest(ctx context.Context) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("post_id DESC").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("load latest post", err)
	}
	return &post, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewStorageError("count posts", err)
	}
	return count, nil
}
