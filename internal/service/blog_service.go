package service

import (
	"blog/internal/auth"
	"blog/internal/entity/common"
	"blog/internal/entity/converter"
	"blog/internal/entity/db"
	"blog/internal/entity/dto"
	"blog/internal/model"
	"blog/internal/storage"
	"blog/internal/utils"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MediaCategory is the storage category used for post media.
const MediaCategory = "posts"

// BlogService 文章服务，封装发布、查看、编辑、删除与列表逻辑
type BlogService struct {
	repo     model.Repository
	verifier auth.ClaimsVerifier
	storage  storage.Storage

	publicBaseURL string
}

// NewBlogService 创建文章服务实例；store 为 nil 时上传功能返回 NetworkError。
func NewBlogService(repo model.Repository, verifier auth.ClaimsVerifier, store storage.Storage, publicBaseURL string) *BlogService {
	return &BlogService{
		repo:          repo,
		verifier:      verifier,
		storage:       store,
		publicBaseURL: publicBaseURL,
	}
}

// CreatePost 发布文章，仅管理员可用。
func (s *BlogService) CreatePost(ctx context.Context, token string, form dto.NewPostForm) common.BlogError {
	claims, err := s.verifier.ParseToken(token)
	if err != nil {
		return common.BlogAuthError
	}
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		logUserLookup(err, claims.UserID, "new_post")
		return common.BlogDatabaseError
	}
	if !user.IsAdmin() {
		return common.BlogAuthError
	}

	post := &db.Post{
		Title:      form.Title,
		Body:       form.Body,
		Author:     claims.UserID,
		Tags:       common.NormalizeTags(form.Tag),
		Permission: db.PermissionPublic,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		logrus.WithError(err).WithField("author", claims.UserID).Error("failed to create post")
		return common.BlogDatabaseError
	}

	logrus.WithFields(logrus.Fields{"post_id": post.ID, "author": post.Author}).Info("post created")
	return common.BlogNothing
}

// ViewPost 查看文章。公开文章无需 token；受限文章要求用户权限等于文章权限。
func (s *BlogService) ViewPost(ctx context.Context, token string, id uint) (common.BlogError, *dto.PublicPost) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		logPostLookup(err, id, "view_post")
		return common.BlogDatabaseError, nil
	}
	if post.IsPublic() {
		return common.BlogNothing, converter.PostToPublic(post)
	}

	claims, err := s.verifier.ParseToken(token)
	if err != nil {
		return common.BlogAuthError, nil
	}
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		logUserLookup(err, claims.UserID, "view_post")
		return common.BlogPermissionError, nil
	}
	if int(user.Permission) != post.Permission {
		// 对外仍返回 DatabaseError，日志中区分为越权访问
		logrus.WithFields(logrus.Fields{
			"post_id":         post.ID,
			"user_id":         user.ID,
			"user_level":      int(user.Permission),
			"post_permission": post.Permission,
		}).Warn("forbidden post view")
		return common.BlogDatabaseError, nil
	}
	return common.BlogNothing, converter.PostToPublic(post)
}

// EditPost 编辑文章，仅作者本人可用。
func (s *BlogService) EditPost(ctx context.Context, token string, form dto.EditPostForm) common.BlogError {
	claims, err := s.verifier.ParseToken(token)
	if err != nil {
		return common.BlogAuthError
	}
	if _, err := s.repo.GetUserByID(ctx, claims.UserID); err != nil {
		logUserLookup(err, claims.UserID, "edit_post")
		return common.BlogDatabaseError
	}

	id := form.PostID()
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		logPostLookup(err, id, "edit_post")
		return common.BlogDatabaseError
	}
	if post.Author != claims.UserID {
		return common.BlogAuthError
	}

	if err := s.repo.UpdatePost(ctx, id, form.Title, form.Body, common.NormalizeTags(form.Tag)); err != nil {
		logrus.WithError(err).WithField("post_id", id).Error("failed to update post")
		return common.BlogDatabaseError
	}
	return common.BlogNothing
}

// DeletePost 删除文章，仅作者本人可用。
func (s *BlogService) DeletePost(ctx context.Context, token string, id uint) common.BlogError {
	claims, err := s.verifier.ParseToken(token)
	if err != nil {
		return common.BlogAuthError
	}
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		logPostLookup(err, id, "delete_post")
		return common.BlogDatabaseError
	}
	if post.Author != claims.UserID {
		return common.BlogAuthError
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		logrus.WithError(err).WithField("post_id", id).Error("failed to delete post")
		return common.BlogDatabaseError
	}
	logrus.WithFields(logrus.Fields{"post_id": id, "author": claims.UserID}).Info("post deleted")
	return common.BlogNothing
}

// ListPosts 按修改时间倒序分页返回文章头。
func (s *BlogService) ListPosts(ctx context.Context, start, count int) (common.BlogError, []db.PostHeader) {
	headers, err := s.repo.ListPostHeaders(ctx, start, count)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"start": start, "count": count}).Error("failed to list posts")
		return common.BlogDatabaseError, []db.PostHeader{}
	}
	return common.BlogNothing, headers
}

// RecentPosts 返回最近修改的文章 id。
func (s *BlogService) RecentPosts(ctx context.Context, count int) (common.BlogError, []uint) {
	ids, err := s.repo.ListPostIDs(ctx, 0, count)
	if err != nil {
		logrus.WithError(err).WithField("count", count).Error("failed to list recent posts")
		return common.BlogDatabaseError, []uint{}
	}
	return common.BlogNothing, ids
}

// CountPosts 返回文章总数。
func (s *BlogService) CountPosts(ctx context.Context) (int64, error) {
	count, err := s.repo.CountPosts(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to count posts")
		return 0, err
	}
	return count, nil
}

// UploadMedia 保存文章配图并返回公开地址，仅管理员可用。
func (s *BlogService) UploadMedia(ctx context.Context, token string, form dto.UploadMediaForm) (common.BlogError, *string) {
	claims, err := s.verifier.ParseToken(token)
	if err != nil {
		return common.BlogAuthError, nil
	}
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		logUserLookup(err, claims.UserID, "upload_media")
		return common.BlogDatabaseError, nil
	}
	if !user.IsAdmin() {
		return common.BlogAuthError, nil
	}

	data, ext, err := utils.DecodeMediaPayload(form.Data)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("invalid media payload")
		return common.BlogDatabaseError, nil
	}

	if s.storage == nil {
		logrus.WithField("user_id", user.ID).Error("media storage not configured")
		return common.BlogNetworkError, nil
	}
	key, err := s.storage.Save(ctx, data, storage.SaveOptions{
		Category:     MediaCategory,
		Extension:    ext,
		BaseName:     utils.ContentHash(data),
		SkipIfExists: true,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": user.ID, "size": len(data)}).Error("failed to store media")
		return common.BlogNetworkError, nil
	}

	url := storage.PublicURL(s.publicBaseURL, key)
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "key": key, "size": len(data)}).Info("media stored")
	return common.BlogNothing, &url
}

func logUserLookup(err error, userID uint, op string) {
	entry := logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "op": op})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry.Warn("token holder not found")
		return
	}
	entry.Error("failed to load user")
}

func logPostLookup(err error, postID uint, op string) {
	entry := logrus.WithError(err).WithFields(logrus.Fields{"post_id": postID, "op": op})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry.Debug("post not found")
		return
	}
	entry.Error("failed to load post")
}
