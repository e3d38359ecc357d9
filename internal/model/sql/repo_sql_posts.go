package sql

import (
	"blog/internal/entity/common"
	"blog/internal/entity/db"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const postOrder = "modified_at DESC, id DESC"

// CreatePost inserts a new post; created_at and modified_at are set here.
func (r *GormRepository) CreatePost(ctx context.Context, post *db.Post) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if post == nil {
		return fmt.Errorf("post is nil")
	}
	if post.Tags == nil {
		post.Tags = common.TagList{}
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPost loads a post by ID.
func (r *GormRepository) GetPost(ctx context.Context, id uint) (*db.Post, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var post db.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost overwrites title, body and tags and advances modified_at.
func (r *GormRepository) UpdatePost(ctx context.Context, id uint, title, body string, tags common.TagList) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid post id")
	}
	if tags == nil {
		tags = common.TagList{}
	}
	updates := map[string]interface{}{
		"title":       title,
		"body":        body,
		"tags":        tags,
		"modified_at": time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&db.Post{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePost removes a post by ID.
func (r *GormRepository) DeletePost(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid post id")
	}
	result := r.db.WithContext(ctx).Delete(&db.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPostHeaders returns a page of headers, most recently modified first.
func (r *GormRepository) ListPostHeaders(ctx context.Context, start, count int) ([]db.PostHeader, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	start, count = clampPage(start, count)

	headers := []db.PostHeader{}
	if count == 0 {
		return headers, nil
	}
	err := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Select("id", "title", "author", "created_at", "modified_at").
		Order(postOrder).
		Offset(start).
		Limit(count).
		Find(&headers).Error
	if err != nil {
		return nil, err
	}
	return headers, nil
}

// ListPostIDs returns a page of post ids in the same order as ListPostHeaders.
func (r *GormRepository) ListPostIDs(ctx context.Context, start, count int) ([]uint, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	start, count = clampPage(start, count)

	ids := []uint{}
	if count == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Order(postOrder).
		Offset(start).
		Limit(count).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountPosts returns total post count.
func (r *GormRepository) CountPosts(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
