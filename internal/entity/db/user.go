package db

import "blog/internal/entity/common"

// User 表示持久化的用户账户。
type User struct {
	ID         uint                `gorm:"primarykey" json:"id"`
	Username   string              `gorm:"column:username;type:varchar(255);uniqueIndex;not null" json:"username"`
	Pass       string              `gorm:"column:pass;type:varchar(255);not null" json:"-"`
	Email      string              `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Nickname   string              `gorm:"column:nickname;type:varchar(255)" json:"nickname"`
	Permission common.AccountLevel `gorm:"column:permission;not null;default:0" json:"permission"`
}

// TableName 指定表名。
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may author posts.
func (u *User) IsAdmin() bool {
	return u != nil && u.Permission == common.LevelAdmin
}
