package handler

import (
	"net/http"
	"strconv"

	"Thread_of_Hope/internal/middleware"
	"Thread_of_Hope/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// base 各 handler 共用的日志和错误出口
type base struct {
	log logrus.FieldLogger
}

// fail 业务错误原样返回；其余一律 500，细节只进日志
func (b base) fail(c *gin.Context, err error, fallback string) {
	ae := pkg.AsAppError(err, fallback)
	if ae.Status >= http.StatusInternalServerError {
		b.log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}).Error(ae.Msg)
	}
	c.AbortWithStatusJSON(ae.Status, gin.H{"error": ae.Msg})
}

// bind 请求体不是合法 JSON 时返回 400
func (b base) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func okData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func single(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func paginated(c *gin.Context, data any, p pkg.Pagination) {
	c.JSON(http.StatusOK, gin.H{"data": data, "pagination": p})
}

// pageFrom 解析 page / limit，非法值按默认处理
func pageFrom(c *gin.Context, defaultLimit int) pkg.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return pkg.NewPage(page, limit, defaultLimit)
}

func isAdmin(c *gin.Context) bool {
	return middleware.ActorFrom(c).IsAdmin()
}

// adminFlag 覆盖参数只对管理员生效
func adminFlag(c *gin.Context, key string) bool {
	return isAdmin(c) && c.Query(key) == "true"
}
