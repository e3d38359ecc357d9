package api

import (
	"blog/internal/entity/common"
	"blog/internal/entity/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// bindAuthed 解析 {token, body} 请求，失败时直接写出空信封
func bindAuthed[T any](c *gin.Context, op string) (dto.AuthedRequest[T], bool) {
	var req dto.AuthedRequest[T]
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).WithField("op", op).Debug("invalid request payload")
		InvalidPayload(c)
		return req, false
	}
	return req, true
}

// NewPost 发布文章
func (h *HTTPHandler) NewPost(c *gin.Context) {
	req, ok := bindAuthed[dto.NewPostForm](c, "new_post")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result := h.blog.CreatePost(ctx, req.Token, req.Body)
	recordResult("new_post", result.String())
	Respond(c, dto.NewPostResponse{Error: result})
}

// ViewPost 查看文章
func (h *HTTPHandler) ViewPost(c *gin.Context) {
	req, ok := bindAuthed[dto.ViewPostForm](c, "view_post")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, post := h.blog.ViewPost(ctx, req.Token, req.Body.PostID())
	recordResult("view_post", result.String())
	Respond(c, dto.ViewPostResponse{Error: result, Post: post})
}

// EditPost 编辑文章，文章 id 可以放在 pk 或 id 字段
func (h *HTTPHandler) EditPost(c *gin.Context) {
	req, ok := bindAuthed[dto.EditPostForm](c, "edit_post")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result := h.blog.EditPost(ctx, req.Token, req.Body)
	recordResult("edit_post", result.String())
	Respond(c, dto.EditPostResponse{Error: result})
}

// DeletePost 删除文章
func (h *HTTPHandler) DeletePost(c *gin.Context) {
	req, ok := bindAuthed[dto.DeletePostForm](c, "delete_post")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result := h.blog.DeletePost(ctx, req.Token, req.Body.PostID())
	recordResult("delete_post", result.String())
	Respond(c, dto.DeletePostResponse{Error: result})
}

// Posts 分页返回文章头
func (h *HTTPHandler) Posts(c *gin.Context) {
	var query dto.PostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, headers := h.blog.ListPosts(ctx, query.Start, query.PageSize())
	Respond(c, dto.PostsResponse{Error: result, Posts: headers})
}

// RecentPosts 返回最近修改的文章 id
func (h *HTTPHandler) RecentPosts(c *gin.Context) {
	var query dto.RecentPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, ids := h.blog.RecentPosts(ctx, query.PageSize())
	Respond(c, dto.RecentPostsResponse{Error: result, Posts: ids})
}

// CountPosts 返回文章总数，查询失败时 status=false
func (h *HTTPHandler) CountPosts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.blog.CountPosts(ctx)
	if err != nil {
		RespondEmpty(c)
		return
	}
	Respond(c, dto.CountPostsResponse{Error: common.BlogNothing, Count: count})
}

// BlogInfo 返回博客名称与地址
func (h *HTTPHandler) BlogInfo(c *gin.Context) {
	Respond(c, dto.BlogInfo{Name: h.cfg.BlogName, URL: h.cfg.BlogURL})
}

// UploadMedia 上传文章配图，仅管理员可用
func (h *HTTPHandler) UploadMedia(c *gin.Context) {
	req, ok := bindAuthed[dto.UploadMediaForm](c, "upload_media")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, url := h.blog.UploadMedia(ctx, req.Token, req.Body)
	recordResult("upload_media", result.String())
	Respond(c, dto.UploadMediaResponse{Error: result, URL: url})
}
