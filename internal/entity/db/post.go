package db

import (
	"time"

	"blog/internal/entity/common"
)

// PermissionPublic marks a post readable by everyone.
const PermissionPublic = 0

// Post 表示一篇博客文章。
type Post struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Title      string         `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Body       string         `gorm:"column:body;type:text;not null" json:"body"`
	Author     uint           `gorm:"column:author;index;not null" json:"author"`
	Tags       common.TagList `gorm:"column:tags;type:text;not null" json:"tags"`
	Permission int            `gorm:"column:permission;not null;default:0" json:"permission"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ModifiedAt time.Time      `gorm:"column:modified_at;autoUpdateTime;index" json:"modified_at"`
}

// TableName 指定表名。
func (Post) TableName() string {
	return "posts"
}

// IsPublic reports whether the post needs no credentials to read.
func (p *Post) IsPublic() bool {
	return p.Permission == PermissionPublic
}

// PostHeader is the list projection of a post, without its body.
type PostHeader struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Author     uint      `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
