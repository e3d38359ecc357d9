package converter

import (
	"blog/internal/entity/db"
	"blog/internal/entity/dto"
)

// UserToInfo converts a db.User to its public profile.
func UserToInfo(u *db.User) *dto.UserInfo {
	if u == nil {
		return nil
	}
	return &dto.UserInfo{
		Username: u.Username,
		Nickname: u.Nickname,
		Email:    u.Email,
		Level:    u.Permission,
	}
}
