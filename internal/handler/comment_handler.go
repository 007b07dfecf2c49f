package handler

import (
	"net/http"

	"Thread_of_Hope/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultCommentPageSize = 10

type CommentHandler struct {
	base
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{base: base{log: log}, comments: comments}
}

func (h *CommentHandler) List(c *gin.Context) {
	status, err := service.ResolveStatusFilter(isAdmin(c), c.Query("approved"), c.Query("status"))
	if err != nil {
		h.fail(c, err, "Failed to fetch comments")
		return
	}
	list, p, err := h.comments.List(c.Request.Context(), status, pageFrom(c, defaultCommentPageSize))
	if err != nil {
		h.fail(c, err, "Failed to fetch comments")
		return
	}
	paginated(c, list, p)
}

func (h *CommentHandler) SetApproval(c *gin.Context) {
	var req service.Decision
	if !h.bind(c, &req) {
		return
	}
	comment, err := h.comments.SetApproval(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete comment")
		return
	}
	ok(c)
}
