package handler

import (
	"Thread_of_Hope/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CommunityHandler struct {
	base
	members *service.MemberService
}

func NewCommunityHandler(members *service.MemberService, log logrus.FieldLogger) *CommunityHandler {
	return &CommunityHandler{base: base{log: log}, members: members}
}

// Join 加入社区申请，进入待审核
func (h *CommunityHandler) Join(c *gin.Context) {
	var req service.MemberApplication
	if !h.bind(c, &req) {
		return
	}
	member, err := h.members.Join(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to submit application")
		return
	}
	okData(c, member)
}

func (h *CommunityHandler) Stats(c *gin.Context) {
	stats, err := h.members.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch stats")
		return
	}
	okData(c, stats)
}

// List 管理员查看全部申请，status 可选过滤
func (h *CommunityHandler) List(c *gin.Context) {
	status, err := service.ParseStatusFilter(c.Query("status"))
	if err != nil {
		h.fail(c, err, "Failed to fetch members")
		return
	}
	list, p, err := h.members.List(c.Request.Context(), status, pageFrom(c, service.DefaultMemberPageSize))
	if err != nil {
		h.fail(c, err, "Failed to fetch members")
		return
	}
	paginated(c, list, p)
}

func (h *CommunityHandler) SetApproval(c *gin.Context) {
	var req service.Decision
	if !h.bind(c, &req) {
		return
	}
	member, err := h.members.SetApproval(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update member")
		return
	}
	okData(c, member)
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	if err := h.members.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete member")
		return
	}
	ok(c)
}
