package model

import (
	"blog/internal/entity/common"
	"blog/internal/entity/db"
	"context"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *db.User) error
	GetUserByID(ctx context.Context, id uint) (*db.User, error)
	FindUsersByUsername(ctx context.Context, username string) ([]db.User, error)
	FindUsersByEmail(ctx context.Context, email string) ([]db.User, error)
	UpdateUserPermission(ctx context.Context, id uint, level common.AccountLevel) error
	ListUsersByPermission(ctx context.Context, level common.AccountLevel) ([]db.User, error)

	// 文章
	CreatePost(ctx context.Context, post *db.Post) error
	GetPost(ctx context.Context, id uint) (*db.Post, error)
	UpdatePost(ctx context.Context, id uint, title, body string, tags common.TagList) error
	DeletePost(ctx context.Context, id uint) error
	ListPostHeaders(ctx context.Context, start, count int) ([]db.PostHeader, error)
	ListPostIDs(ctx context.Context, start, count int) ([]uint, error)
	CountPosts(ctx context.Context) (int64, error)
}
