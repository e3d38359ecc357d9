package service

import (
	"blog/internal/auth"
	"blog/internal/entity/common"
	"blog/internal/entity/converter"
	"blog/internal/entity/db"
	"blog/internal/entity/dto"
	"blog/internal/model"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AccountService 账户服务：注册、登录与用户资料查询
type AccountService struct {
	repo     model.Repository
	issuer   auth.TokenIssuer
	verifier auth.ClaimsVerifier
}

// NewAccountService 创建账户服务实例
func NewAccountService(repo model.Repository, issuer auth.TokenIssuer, verifier auth.ClaimsVerifier) *AccountService {
	return &AccountService{
		repo:     repo,
		issuer:   issuer,
		verifier: verifier,
	}
}

// Register 创建普通用户。用户名冲突优先于邮箱冲突。
func (s *AccountService) Register(ctx context.Context, form dto.RegisterForm) common.AccountError {
	if s.usernameTaken(ctx, form.Username) {
		return common.AccountUsernameAlreadyExists
	}
	if s.emailTaken(ctx, form.Email) {
		return common.AccountEmailAlreadyExists
	}

	user := &db.User{
		Username:   form.Username,
		Pass:       auth.HashPassword(form.Pass),
		Email:      form.Email,
		Nickname:   form.Nickname,
		Permission: common.LevelDefault,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发注册：预检查之后被其他请求抢先插入
			return s.resolveConflict(ctx, form)
		}
		logrus.WithError(err).WithField("username", form.Username).Error("failed to create user")
		return common.AccountDatabaseError
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return common.AccountNothing
}

// Login 校验用户名与密码，成功时返回会话 token。
func (s *AccountService) Login(ctx context.Context, form dto.LoginForm) (common.AccountError, *string) {
	users, err := s.repo.FindUsersByUsername(ctx, form.Username)
	if err != nil {
		logrus.WithError(err).WithField("username", form.Username).Error("failed to look up user for login")
		return common.AccountDatabaseError, nil
	}
	if len(users) == 0 {
		return common.AccountUserNotExists, nil
	}

	user := users[0]
	if !auth.VerifyPassword(user.Pass, form.Pass) {
		return common.AccountPassNotMatched, nil
	}

	token, _, err := s.issuer.GenerateToken(user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to sign token")
		return common.AccountDatabaseError, nil
	}
	return common.AccountNothing, &token
}

// GetInfo 返回 token 持有者的资料；token 无效或用户不存在时返回 nil。
func (s *AccountService) GetInfo(ctx context.Context, token string) *dto.UserInfo {
	claims, err := s.verifier.ParseToken(token)
	if err != nil {
		logrus.WithError(err).Debug("info: token rejected")
		return nil
	}
	return s.GetUser(ctx, claims.UserID)
}

// GetUser 按 id 返回用户资料，不需要登录。
func (s *AccountService) GetUser(ctx context.Context, id uint) *dto.UserInfo {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("user_id", id).Error("failed to load user")
		}
		return nil
	}
	return converter.UserToInfo(user)
}

// 预检查查询失败时视为无冲突，由唯一索引兜底
func (s *AccountService) usernameTaken(ctx context.Context, username string) bool {
	users, err := s.repo.FindUsersByUsername(ctx, username)
	if err != nil {
		logrus.WithError(err).WithField("username", username).Warn("username pre-check failed")
		return false
	}
	return len(users) > 0
}

func (s *AccountService) emailTaken(ctx context.Context, email string) bool {
	users, err := s.repo.FindUsersByEmail(ctx, email)
	if err != nil {
		logrus.WithError(err).WithField("email", email).Warn("email pre-check failed")
		return false
	}
	return len(users) > 0
}

func (s *AccountService) resolveConflict(ctx context.Context, form dto.RegisterForm) common.AccountError {
	switch {
	case s.usernameTaken(ctx, form.Username):
		return common.AccountUsernameAlreadyExists
	case s.emailTaken(ctx, form.Email):
		return common.AccountEmailAlreadyExists
	default:
		logrus.WithField("username", form.Username).Error("unique constraint hit but no conflicting user found")
		return common.AccountDatabaseError
	}
}
