package dto

import (
	"time"

	"blog/internal/entity/common"
	"blog/internal/entity/db"
)

// AuthedRequest is the {token, body} shape shared by the blog write endpoints.
type AuthedRequest[T any] struct {
	Token string `json:"token"`
	Body  T      `json:"body"`
}

type NewPostForm struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tag   []string `json:"tag"`
}

// EditPostForm accepts the post id as either pk or id.
type EditPostForm struct {
	Pk    int64    `json:"pk"`
	ID    int64    `json:"id"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tag   []string `json:"tag"`
}

// PostID returns pk when set, otherwise id.
func (f EditPostForm) PostID() uint {
	if f.Pk != 0 {
		return postID(f.Pk)
	}
	return postID(f.ID)
}

type ViewPostForm struct {
	ID int64 `json:"id"`
}

func (f ViewPostForm) PostID() uint {
	return postID(f.ID)
}

type DeletePostForm struct {
	ID int64 `json:"id"`
}

func (f DeletePostForm) PostID() uint {
	return postID(f.ID)
}

// postID maps ids that can never exist (zero or negative) to 0, which the repository reports as not found.
func postID(id int64) uint {
	if id <= 0 {
		return 0
	}
	return uint(id)
}

// UploadMediaForm carries an inline base64 or data URL payload.
type UploadMediaForm struct {
	Data string `json:"data"`
}

type NewPostResponse struct {
	Error common.BlogError `json:"error"`
}

type EditPostResponse struct {
	Error common.BlogError `json:"error"`
}

type DeletePostResponse struct {
	Error common.BlogError `json:"error"`
}

type CountPostsResponse struct {
	Error common.BlogError `json:"error"`
	Count int64            `json:"count"`
}

// PublicPost is a post as shown to readers, with tags split back into a list.
type PublicPost struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Author     uint      `json:"author"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

type ViewPostResponse struct {
	Error common.BlogError `json:"error"`
	Post  *PublicPost      `json:"post"`
}

type PostsResponse struct {
	Error common.BlogError `json:"error"`
	Posts []db.PostHeader  `json:"posts"`
}

type RecentPostsResponse struct {
	Error common.BlogError `json:"error"`
	Posts []uint           `json:"posts"`
}

type UploadMediaResponse struct {
	Error common.BlogError `json:"error"`
	URL   *string          `json:"url"`
}

// DefaultPageSize is used when the count parameter is absent.
const DefaultPageSize = 10

// PostsQuery binds ?start=&count=.
type PostsQuery struct {
	Start int  `form:"start"`
	Count *int `form:"count"`
}

// PageSize returns the requested count, or DefaultPageSize when none was given.
func (q PostsQuery) PageSize() int {
	return pageSize(q.Count)
}

// RecentPostsQuery binds ?count=.
type RecentPostsQuery struct {
	Count *int `form:"count"`
}

func (q RecentPostsQuery) PageSize() int {
	return pageSize(q.Count)
}

func pageSize(count *int) int {
	if count == nil {
		return DefaultPageSize
	}
	return *count
}

// BlogInfo describes the blog itself.
type BlogInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
