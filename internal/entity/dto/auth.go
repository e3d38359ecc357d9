package dto

import "blog/internal/entity/common"

// Ping is the liveness reply of the account service.
type Ping struct {
	Reply string `json:"reply"`
}

// LoginForm is the login request payload.
type LoginForm struct {
	Username string `json:"username"`
	Pass     string `json:"pass"`
}

// LoginResponse carries the login result and, on success, the session token.
type LoginResponse struct {
	Result common.AccountError `json:"result"`
	Token  *string             `json:"token"`
}

// RegisterForm is the registration request payload.
type RegisterForm struct {
	Username string `json:"username"`
	Pass     string `json:"pass"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// RegisterResponse carries the registration result.
type RegisterResponse struct {
	Result common.AccountError `json:"result"`
}
