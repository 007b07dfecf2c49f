package router

import (
	"Thread_of_Hope/internal/config"
	"Thread_of_Hope/internal/handler"
	"Thread_of_Hope/internal/logging"
	"Thread_of_Hope/internal/metrics"
	"Thread_of_Hope/internal/middleware"
	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/service"
	"Thread_of_Hope/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// InitRouter 组装服务、handler 和路由表；存储实现由调用方按 driver 选择
func InitRouter(cfg *config.Config, repos service.Repositories, files storage.Store, log logrus.FieldLogger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(log), metrics.Instrument())

	tokens := pkg.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(repos.Users, repos.Sessions, tokens, cfg.Auth.SessionTTL)
	authn := middleware.NewAuthenticator(authSvc, cfg.Auth.CookieName, log)
	r.Use(authn.IdentifyActor())
	admin := authn.RequireAdmin()

	commentSvc := service.NewCommentService(repos.Comments, repos.Stories)
	story := handler.NewStoryHandler(
		service.NewStoryService(repos.Stories, repos.Likes),
		service.NewLikeService(repos.Likes, repos.Stories),
		commentSvc, log)
	comment := handler.NewCommentHandler(commentSvc, log)
	community := handler.NewCommunityHandler(service.NewMemberService(repos.Members), log)
	ebook := handler.NewEbookHandler(service.NewEbookService(repos.Ebooks, files, log), log)
	event := handler.NewEventHandler(service.NewEventService(repos.Events, files, log), log)
	gallery := handler.NewGalleryHandler(service.NewGalleryService(repos.Gallery, files, log), log)
	upload := handler.NewUploadHandler(service.NewUploadService(files, cfg.Upload.MaxImageSize, cfg.Upload.MaxEbookSize), log)
	auth := handler.NewAuthHandler(authSvc, handler.CookieConfig{
		Name:   cfg.Auth.CookieName,
		MaxAge: cfg.Auth.SessionTTL,
		Secure: cfg.Auth.SecureCookie,
	}, log)
	stats := handler.NewAdminHandler(service.NewStatsService(repos), log)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Upload.Dir != "" {
		r.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir)
	}

	api := r.Group("/api")
	api.GET("/health", stats.Health)

	// 故事、点赞和故事下的评论
	curhat := api.Group("/curhat")
	{
		curhat.POST("", story.Submit)
		curhat.GET("", story.List)
		curhat.GET("/:id", story.Get)
		curhat.PATCH("/:id", admin, story.Update)
		curhat.DELETE("/:id", admin, story.Delete)
		curhat.POST("/:id/like", story.ToggleLike)
		curhat.GET("/:id/like", story.LikeStatus)
		curhat.POST("/:id/comment", story.SubmitComment)
		curhat.GET("/:id/comments", story.Comments)
	}

	comments := api.Group("/comments")
	{
		comments.GET("", comment.List)
		comments.PATCH("/:id", admin, comment.SetApproval)
		comments.DELETE("/:id", admin, comment.Delete)
	}

	// 社区成员申请
	communityGroup := api.Group("/community")
	{
		communityGroup.POST("/join", community.Join)
		communityGroup.GET("/stats", community.Stats)
		communityGroup.GET("", admin, community.List)
		communityGroup.PATCH("/members/:id", admin, community.SetApproval)
		communityGroup.DELETE("/members/:id", admin, community.Delete)
	}

	ebooks := api.Group("/ebooks")
	{
		ebooks.GET("", ebook.List)
		ebooks.GET("/:id", ebook.Get)
		ebooks.POST("", admin, ebook.Create)
		ebooks.PATCH("/:id", admin, ebook.Update)
		ebooks.DELETE("/:id", admin, ebook.Delete)
		ebooks.POST("/:id/view", ebook.View)
		ebooks.POST("/:id/download", ebook.Download)
	}

	events := api.Group("/events")
	{
		events.GET("", event.List)
		events.GET("/:id", event.Get)
		events.POST("", admin, event.Create)
		events.PATCH("/:id", admin, event.Update)
		events.DELETE("/:id", admin, event.Delete)
	}

	galleryGroup := api.Group("/gallery")
	{
		galleryGroup.GET("", gallery.List)
		galleryGroup.GET("/:id", gallery.Get)
		galleryGroup.POST("", admin, gallery.Create)
		galleryGroup.PATCH("/:id", admin, gallery.Update)
		galleryGroup.DELETE("/:id", admin, gallery.Delete)
	}

	uploads := api.Group("/upload", admin)
	{
		uploads.POST("/image", upload.Image)
		uploads.POST("/ebook", upload.Ebook)
	}

	// 登录态接口
	api.POST("/admin-login", auth.Login)
	api.POST("/admin-logout", auth.Logout)
	api.POST("/auth/register", auth.Register)
	api.GET("/auth/me", auth.Me)
	api.GET("/admin/stats", admin, stats.Stats)

	return r
}
