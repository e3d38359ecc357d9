package dto

import "blog/internal/entity/common"

// UserInfo is the public profile returned by info and get_user.
type UserInfo struct {
	Username string              `json:"username"`
	Nickname string              `json:"nickname"`
	Email    string              `json:"email"`
	Level    common.AccountLevel `json:"level"`
}

// TokenQuery binds ?token=.
type TokenQuery struct {
	Token string `form:"token"`
}

// UserQuery binds ?pk=.
type UserQuery struct {
	Pk uint `form:"pk"`
}
