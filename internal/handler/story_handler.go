package handler

import (
	"net/http"

	"Thread_of_Hope/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultStoryPageSize = 10

type StoryHandler struct {
	base
	stories  *service.StoryService
	likes    *service.LikeService
	comments *service.CommentService
}

func NewStoryHandler(stories *service.StoryService, likes *service.LikeService, comments *service.CommentService, log logrus.FieldLogger) *StoryHandler {
	return &StoryHandler{base: base{log: log}, stories: stories, likes: likes, comments: comments}
}

// Submit 公开提交故事
func (h *StoryHandler) Submit(c *gin.Context) {
	var req service.StorySubmission
	if !h.bind(c, &req) {
		return
	}
	story, err := h.stories.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to submit story")
		return
	}
	okData(c, story)
}

// List 默认只返回已通过的；approved=false / status 仅管理员有效
func (h *StoryHandler) List(c *gin.Context) {
	status, err := service.ResolveStatusFilter(isAdmin(c), c.Query("approved"), c.Query("status"))
	if err != nil {
		h.fail(c, err, "Failed to fetch stories")
		return
	}
	list, p, err := h.stories.List(c.Request.Context(), status, pageFrom(c, defaultStoryPageSize))
	if err != nil {
		h.fail(c, err, "Failed to fetch stories")
		return
	}
	paginated(c, list, p)
}

func (h *StoryHandler) Get(c *gin.Context) {
	story, err := h.stories.Get(c.Request.Context(), c.Param("id"), adminFlag(c, "admin"))
	if err != nil {
		h.fail(c, err, "Internal server error")
		return
	}
	single(c, story)
}

func (h *StoryHandler) Update(c *gin.Context) {
	var req service.StoryUpdate
	if !h.bind(c, &req) {
		return
	}
	story, err := h.stories.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update story")
		return
	}
	okData(c, story)
}

func (h *StoryHandler) Delete(c *gin.Context) {
	if err := h.stories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete story")
		return
	}
	ok(c)
}

type likeReq struct {
	ClientID string `json:"clientId"`
}

// ToggleLike 同一个 clientId 再次调用即取消
func (h *StoryHandler) ToggleLike(c *gin.Context) {
	var req likeReq
	if !h.bind(c, &req) {
		return
	}
	state, err := h.likes.Toggle(c.Request.Context(), c.Param("id"), req.ClientID)
	if err != nil {
		h.fail(c, err, "Failed to toggle like")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "likes": state.Likes, "isLiked": state.IsLiked})
}

func (h *StoryHandler) LikeStatus(c *gin.Context) {
	state, err := h.likes.Status(c.Request.Context(), c.Param("id"), c.Query("clientId"))
	if err != nil {
		h.fail(c, err, "Failed to fetch like status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": state.Likes, "isLiked": state.IsLiked})
}

func (h *StoryHandler) SubmitComment(c *gin.Context) {
	var req service.CommentSubmission
	if !h.bind(c, &req) {
		return
	}
	comment, err := h.comments.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to post comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

// Comments 故事下已通过的评论
func (h *StoryHandler) Comments(c *gin.Context) {
	list, err := h.comments.ListForStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch comments")
		return
	}
	single(c, list)
}
