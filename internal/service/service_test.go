package service

import (
	"blog/internal/auth"
	"blog/internal/config"
	"blog/internal/entity/common"
	"blog/internal/entity/db"
	"blog/internal/entity/dto"
	"blog/internal/model"
	"blog/internal/storage"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type testEnv struct {
	repo     model.Repository
	tokens   *auth.Manager
	accounts *AccountService
	blog     *BlogService
	mediaDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	repo, err := model.InitRepository(&config.Config{DBType: model.DBTypeSQLite, DBPath: filepath.Join(dir, "blog.db")})
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	tokens, err := auth.NewManager("test-secret", "blog", 0)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	mediaDir := filepath.Join(dir, "media")
	store, err := storage.NewLocalStorage(mediaDir)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	return &testEnv{
		repo:     repo,
		tokens:   tokens,
		accounts: NewAccountService(repo, tokens, tokens),
		blog:     NewBlogService(repo, tokens, store, "/files"),
		mediaDir: mediaDir,
	}
}

// signUp registers a user, optionally promotes it, and returns its id and a fresh token.
func (e *testEnv) signUp(t *testing.T, username string, admin bool) (uint, string) {
	t.Helper()
	ctx := context.Background()
	if res := e.accounts.Register(ctx, dto.RegisterForm{Username: username, Pass: "pw-" + username, Email: username + "@example.com", Nickname: username}); res != common.AccountNothing {
		t.Fatalf("register %s: %v", username, res)
	}
	users, err := e.repo.FindUsersByUsername(ctx, username)
	if err != nil || len(users) != 1 {
		t.Fatalf("find %s: %v", username, err)
	}
	if admin {
		if err := e.repo.UpdateUserPermission(ctx, users[0].ID, common.LevelAdmin); err != nil {
			t.Fatalf("promote %s: %v", username, err)
		}
	}
	res, token := e.accounts.Login(ctx, dto.LoginForm{Username: username, Pass: "pw-" + username})
	if res != common.AccountNothing || token == nil {
		t.Fatalf("login %s: %v", username, res)
	}
	return users[0].ID, *token
}

func (e *testEnv) latestPostID(t *testing.T) uint {
	t.Helper()
	res, ids := e.blog.RecentPosts(context.Background(), 1)
	if res != common.BlogNothing || len(ids) != 1 {
		t.Fatalf("recent posts: %v %v", res, ids)
	}
	return ids[0]
}

// hidingRepo pretends the users table is empty for the first pre-check queries,
// reproducing two registrations racing past the pre-checks.
type hidingRepo struct {
	model.Repository
	hidden int
}

func (r *hidingRepo) FindUsersByUsername(ctx context.Context, username string) ([]db.User, error) {
	if r.hidden > 0 {
		r.hidden--
		return nil, nil
	}
	return r.Repository.FindUsersByUsername(ctx, username)
}

func (r *hidingRepo) FindUsersByEmail(ctx context.Context, email string) ([]db.User, error) {
	if r.hidden > 0 {
		r.hidden--
		return nil, nil
	}
	return r.Repository.FindUsersByEmail(ctx, email)
}

// brokenRepo fails every read used by listing, counting and login.
type brokenRepo struct {
	model.Repository
}

var errBroken = errors.New("storage unavailable")

func (brokenRepo) FindUsersByUsername(context.Context, string) ([]db.User, error) {
	return nil, errBroken
}

func (brokenRepo) ListPostHeaders(context.Context, int, int) ([]db.PostHeader, error) {
	return nil, errBroken
}

func (brokenRepo) ListPostIDs(context.Context, int, int) ([]uint, error) {
	return nil, errBroken
}

func (brokenRepo) CountPosts(context.Context) (int64, error) {
	return 0, errBroken
}

func (brokenRepo) CreatePost(context.Context, *db.Post) error {
	return errBroken
}

type failingStorage struct{}

func (failingStorage) Save(context.Context, []byte, storage.SaveOptions) (string, error) {
	return "", errors.New("bucket unreachable")
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	form := dto.RegisterForm{Username: "alice", Pass: "secret", Email: "alice@example.com", Nickname: "Al"}
	if res := env.accounts.Register(ctx, form); res != common.AccountNothing {
		t.Fatalf("expected Nothing, got %v", res)
	}

	users, _ := env.repo.FindUsersByUsername(ctx, "alice")
	if len(users) != 1 || users[0].Pass != auth.HashPassword("secret") || users[0].Permission != common.LevelDefault {
		t.Fatalf("unexpected stored user %+v", users)
	}

	res, token := env.accounts.Login(ctx, dto.LoginForm{Username: "alice", Pass: "secret"})
	if res != common.AccountNothing || token == nil {
		t.Fatalf("expected login success, got %v", res)
	}
	claims, err := env.tokens.ParseToken(*token)
	if err != nil || claims.UserID != users[0].ID {
		t.Fatalf("token does not carry the user id: %v %+v", err, claims)
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Fatalf("expected one day expiry, got %v", ttl)
	}

	if res, token := env.accounts.Login(ctx, dto.LoginForm{Username: "alice", Pass: "wrong"}); res != common.AccountPassNotMatched || token != nil {
		t.Fatalf("expected PassNotMatched, got %v", res)
	}
	if res, token := env.accounts.Login(ctx, dto.LoginForm{Username: "nobody", Pass: "secret"}); res != common.AccountUserNotExists || token != nil {
		t.Fatalf("expected UserNotExists, got %v", res)
	}
	if res, _ := env.accounts.Login(ctx, dto.LoginForm{}); res != common.AccountUserNotExists {
		t.Fatalf("empty form should not match any user, got %v", res)
	}
}

func TestRegisterConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if res := env.accounts.Register(ctx, dto.RegisterForm{Username: "a", Pass: "p", Email: "x@example.com"}); res != common.AccountNothing {
		t.Fatalf("first register: %v", res)
	}
	if res := env.accounts.Register(ctx, dto.RegisterForm{Username: "a", Pass: "p", Email: "y@example.com"}); res != common.AccountUsernameAlreadyExists {
		t.Fatalf("expected UsernameAlreadyExists, got %v", res)
	}
	if res := env.accounts.Register(ctx, dto.RegisterForm{Username: "b", Pass: "p", Email: "x@example.com"}); res != common.AccountEmailAlreadyExists {
		t.Fatalf("expected EmailAlreadyExists, got %v", res)
	}
	// 两者都冲突时用户名优先
	if res := env.accounts.Register(ctx, dto.RegisterForm{Username: "a", Pass: "p", Email: "x@example.com"}); res != common.AccountUsernameAlreadyExists {
		t.Fatalf("expected UsernameAlreadyExists to win, got %v", res)
	}

	users, _ := env.repo.ListUsersByPermission(ctx, common.LevelDefault)
	if len(users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(users))
	}
}

func TestRegisterRaceResolvedByUniqueIndex(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if res := env.accounts.Register(ctx, dto.RegisterForm{Username: "a", Pass: "p", Email: "x@example.com"}); res != common.AccountNothing {
		t.Fatalf("first register: %v", res)
	}

	racing := NewAccountService(&hidingRepo{Repository: env.repo, hidden: 2}, env.tokens, env.tokens)
	if res := racing.Register(ctx, dto.RegisterForm{Username: "a", Pass: "p", Email: "z@example.com"}); res != common.AccountUsernameAlreadyExists {
		t.Fatalf("expected UsernameAlreadyExists from constraint, got %v", res)
	}

	racing = NewAccountService(&hidingRepo{Repository: env.repo, hidden: 2}, env.tokens, env.tokens)
	if res := racing.Register(ctx, dto.RegisterForm{Username: "c", Pass: "p", Email: "x@example.com"}); res != common.AccountEmailAlreadyExists {
		t.Fatalf("expected EmailAlreadyExists from constraint, got %v", res)
	}

	users, _ := env.repo.ListUsersByPermission(ctx, common.LevelDefault)
	if len(users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(users))
	}
}

func TestLoginDatabaseError(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAccountService(brokenRepo{Repository: env.repo}, env.tokens, env.tokens)
	if res, token := svc.Login(context.Background(), dto.LoginForm{Username: "a", Pass: "p"}); res != common.AccountDatabaseError || token != nil {
		t.Fatalf("expected DatabaseError, got %v", res)
	}
}

func TestInfoAndGetUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id, token := env.signUp(t, "root", true)

	info := env.accounts.GetInfo(ctx, token)
	if info == nil || info.Username != "root" || info.Email != "root@example.com" || info.Level != common.LevelAdmin {
		t.Fatalf("unexpected info %+v", info)
	}
	if info := env.accounts.GetInfo(ctx, "garbage"); info != nil {
		t.Fatalf("expected nil for bad token, got %+v", info)
	}
	if info := env.accounts.GetUser(ctx, id); info == nil || info.Nickname != "root" {
		t.Fatalf("unexpected get_user %+v", info)
	}
	if info := env.accounts.GetUser(ctx, id+100); info != nil {
		t.Fatalf("expected nil for unknown id, got %+v", info)
	}

	// token for a user that no longer resolves
	orphan, _, err := env.tokens.GenerateToken(id + 100)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if info := env.accounts.GetInfo(ctx, orphan); info != nil {
		t.Fatalf("expected nil for orphan token, got %+v", info)
	}
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, userToken := env.signUp(t, "reader", false)
	adminID, adminToken := env.signUp(t, "writer", true)

	form := dto.NewPostForm{Title: "T", Body: "B", Tag: []string{"go", " ", "web"}}
	if res := env.blog.CreatePost(ctx, "", form); res != common.BlogAuthError {
		t.Fatalf("expected AuthError without token, got %v", res)
	}
	if res := env.blog.CreatePost(ctx, userToken, form); res != common.BlogAuthError {
		t.Fatalf("expected AuthError for non-admin, got %v", res)
	}
	if count, _ := env.blog.CountPosts(ctx); count != 0 {
		t.Fatalf("rejected posts must not be stored, count=%d", count)
	}

	if res := env.blog.CreatePost(ctx, adminToken, form); res != common.BlogNothing {
		t.Fatalf("expected Nothing for admin, got %v", res)
	}
	res, post := env.blog.ViewPost(ctx, "", env.latestPostID(t))
	if res != common.BlogNothing || post == nil {
		t.Fatalf("expected public post, got %v", res)
	}
	if post.Author != adminID || post.Title != "T" || len(post.Tags) != 2 || post.Tags[1] != "web" {
		t.Fatalf("unexpected post %+v", post)
	}

	orphan, _, _ := env.tokens.GenerateToken(adminID + 100)
	if res := env.blog.CreatePost(ctx, orphan, form); res != common.BlogDatabaseError {
		t.Fatalf("expected DatabaseError for unknown user, got %v", res)
	}

	broken := NewBlogService(brokenRepo{Repository: env.repo}, env.tokens, nil, "")
	if res := broken.CreatePost(ctx, adminToken, form); res != common.BlogDatabaseError {
		t.Fatalf("expected DatabaseError on insert failure, got %v", res)
	}
}

func TestViewRestrictedPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adminID, adminToken := env.signUp(t, "admin", true)
	_, userToken := env.signUp(t, "user", false)

	restricted := &db.Post{Title: "staff", Body: "only", Author: adminID, Permission: int(common.LevelAdmin)}
	if err := env.repo.CreatePost(ctx, restricted); err != nil {
		t.Fatalf("create restricted post: %v", err)
	}

	if res, post := env.blog.ViewPost(ctx, "", restricted.ID); res != common.BlogAuthError || post != nil {
		t.Fatalf("expected AuthError without token, got %v", res)
	}
	if res, post := env.blog.ViewPost(ctx, userToken, restricted.ID); res != common.BlogDatabaseError || post != nil {
		t.Fatalf("expected DatabaseError for level mismatch, got %v", res)
	}
	if res, post := env.blog.ViewPost(ctx, adminToken, restricted.ID); res != common.BlogNothing || post == nil || post.Body != "only" {
		t.Fatalf("expected admin to read restricted post, got %v", res)
	}

	orphan, _, _ := env.tokens.GenerateToken(adminID + 100)
	if res, _ := env.blog.ViewPost(ctx, orphan, restricted.ID); res != common.BlogPermissionError {
		t.Fatalf("expected PermissionError for unknown user, got %v", res)
	}
	if res, post := env.blog.ViewPost(ctx, adminToken, restricted.ID+100); res != common.BlogDatabaseError || post != nil {
		t.Fatalf("expected DatabaseError for missing post, got %v", res)
	}
}

func TestEditPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, authorToken := env.signUp(t, "author", true)
	_, otherToken := env.signUp(t, "other", true)

	if res := env.blog.CreatePost(ctx, authorToken, dto.NewPostForm{Title: "v1", Body: "b1", Tag: []string{"a"}}); res != common.BlogNothing {
		t.Fatalf("create: %v", res)
	}
	id := env.latestPostID(t)
	_, before := env.blog.ViewPost(ctx, "", id)

	time.Sleep(5 * time.Millisecond)
	if res := env.blog.EditPost(ctx, authorToken, dto.EditPostForm{Pk: int64(id), Title: "v2", Body: "b2", Tag: []string{"x", "y"}}); res != common.BlogNothing {
		t.Fatalf("expected author edit to succeed, got %v", res)
	}
	_, after := env.blog.ViewPost(ctx, "", id)
	if after.Title != "v2" || after.Body != "b2" || len(after.Tags) != 2 {
		t.Fatalf("edit not applied: %+v", after)
	}
	if !after.ModifiedAt.After(before.ModifiedAt) {
		t.Fatalf("modified_at did not advance: %v -> %v", before.ModifiedAt, after.ModifiedAt)
	}

	if res := env.blog.EditPost(ctx, otherToken, dto.EditPostForm{ID: int64(id), Title: "hijack"}); res != common.BlogAuthError {
		t.Fatalf("expected AuthError for non-author, got %v", res)
	}
	if res := env.blog.EditPost(ctx, "bad", dto.EditPostForm{ID: int64(id)}); res != common.BlogAuthError {
		t.Fatalf("expected AuthError for bad token, got %v", res)
	}
	if res := env.blog.EditPost(ctx, authorToken, dto.EditPostForm{ID: int64(id) + 100}); res != common.BlogDatabaseError {
		t.Fatalf("expected DatabaseError for missing post, got %v", res)
	}
	if res := env.blog.EditPost(ctx, authorToken, dto.EditPostForm{Pk: -1, Title: "neg"}); res != common.BlogDatabaseError {
		t.Fatalf("expected DatabaseError for negative id, got %v", res)
	}
	_, unchanged := env.blog.ViewPost(ctx, "", id)
	if unchanged.Title != "v2" {
		t.Fatalf("rejected edit changed the post: %+v", unchanged)
	}
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, authorToken := env.signUp(t, "author", true)
	_, otherToken := env.signUp(t, "other", false)

	env.blog.CreatePost(ctx, authorToken, dto.NewPostForm{Title: "bye"})
	id := env.latestPostID(t)

	if res := env.blog.DeletePost(ctx, otherToken, id); res != common.BlogAuthError {
		t.Fatalf("expected AuthError for non-author, got %v", res)
	}
	if res := env.blog.DeletePost(ctx, "", id); res != common.BlogAuthError {
		t.Fatalf("expected AuthError without token, got %v", res)
	}
	if res := env.blog.DeletePost(ctx, authorToken, id); res != common.BlogNothing {
		t.Fatalf("expected Nothing, got %v", res)
	}
	if res, _ := env.blog.ViewPost(ctx, "", id); res != common.BlogDatabaseError {
		t.Fatalf("expected deleted post to be gone, got %v", res)
	}
	if res := env.blog.DeletePost(ctx, authorToken, id); res != common.BlogDatabaseError {
		t.Fatalf("expected DatabaseError on second delete, got %v", res)
	}
}

func TestListingAndCounting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, token := env.signUp(t, "author", true)

	for _, title := range []string{"one", "two", "three"} {
		if res := env.blog.CreatePost(ctx, token, dto.NewPostForm{Title: title}); res != common.BlogNothing {
			t.Fatalf("create %s: %v", title, res)
		}
		time.Sleep(5 * time.Millisecond)
	}

	count, err := env.blog.CountPosts(ctx)
	if err != nil || count != 3 {
		t.Fatalf("count: %v %d", err, count)
	}

	res, headers := env.blog.ListPosts(ctx, 0, 2)
	if res != common.BlogNothing || len(headers) != 2 || headers[0].Title != "three" || headers[1].Title != "two" {
		t.Fatalf("unexpected first page %v %+v", res, headers)
	}
	_, rest := env.blog.ListPosts(ctx, 2, 2)
	if len(rest) != 1 || rest[0].Title != "one" {
		t.Fatalf("unexpected second page %+v", rest)
	}
	_, clamped := env.blog.ListPosts(ctx, -3, 100)
	if len(clamped) != 3 {
		t.Fatalf("expected clamped paging to return all posts, got %d", len(clamped))
	}
	if res, empty := env.blog.ListPosts(ctx, 0, 0); res != common.BlogNothing || empty == nil || len(empty) != 0 {
		t.Fatalf("expected an empty page for count 0, got %v %+v", res, empty)
	}
	if res, none := env.blog.RecentPosts(ctx, 0); res != common.BlogNothing || none == nil || len(none) != 0 {
		t.Fatalf("expected no recent ids for count 0, got %v %v", res, none)
	}

	res, ids := env.blog.RecentPosts(ctx, 2)
	if res != common.BlogNothing || len(ids) != 2 || ids[0] != headers[0].ID || ids[1] != headers[1].ID {
		t.Fatalf("recent ids should follow header order: %v vs %+v", ids, headers)
	}

	broken := NewBlogService(brokenRepo{Repository: env.repo}, env.tokens, nil, "")
	if res, headers := broken.ListPosts(ctx, 0, 10); res != common.BlogDatabaseError || headers == nil || len(headers) != 0 {
		t.Fatalf("expected DatabaseError with empty list, got %v %v", res, headers)
	}
	if res, ids := broken.RecentPosts(ctx, 10); res != common.BlogDatabaseError || len(ids) != 0 {
		t.Fatalf("expected DatabaseError with empty list, got %v %v", res, ids)
	}
	if _, err := broken.CountPosts(ctx); err == nil {
		t.Fatal("expected count error")
	}
}

func TestUploadMedia(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, adminToken := env.signUp(t, "admin", true)
	_, userToken := env.signUp(t, "user", false)

	payload := dto.UploadMediaForm{Data: "data:image/png;base64,aGVsbG8="}

	res, url := env.blog.UploadMedia(ctx, adminToken, payload)
	if res != common.BlogNothing || url == nil {
		t.Fatalf("expected upload to succeed, got %v", res)
	}
	if want := "/files/posts/"; len(*url) <= len(want) || (*url)[:len(want)] != want {
		t.Fatalf("unexpected url %q", *url)
	}
	_, again := env.blog.UploadMedia(ctx, adminToken, payload)
	if again == nil || *again != *url {
		t.Fatalf("identical uploads should share a url: %v vs %v", again, *url)
	}

	if res, _ := env.blog.UploadMedia(ctx, userToken, payload); res != common.BlogAuthError {
		t.Fatalf("expected AuthError for non-admin, got %v", res)
	}
	if res, _ := env.blog.UploadMedia(ctx, "", payload); res != common.BlogAuthError {
		t.Fatalf("expected AuthError without token, got %v", res)
	}
	if res, _ := env.blog.UploadMedia(ctx, adminToken, dto.UploadMediaForm{Data: "!!!"}); res != common.BlogDatabaseError {
		t.Fatalf("expected DatabaseError for bad payload, got %v", res)
	}

	offline := NewBlogService(env.repo, env.tokens, failingStorage{}, "/files")
	if res, url := offline.UploadMedia(ctx, adminToken, payload); res != common.BlogNetworkError || url != nil {
		t.Fatalf("expected NetworkError from storage, got %v", res)
	}
}
