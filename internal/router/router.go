package router

import (
	"net/http"
	"time"

	"quillpost/internal/cache"
	"quillpost/internal/handlers"
	"quillpost/internal/log"
	"quillpost/internal/metrics"
	"quillpost/internal/middleware"
	"quillpost/internal/repository"
	"quillpost/internal/services"
	"quillpost/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	Repos         *repository.Repositories
	Blobs         storage.Storage
	Pages         cache.PageCache
	PageTTL       time.Duration
	PostsPerPage  int
	MaxImageSize  int64
	SessionName   string
	SessionSecret string
	SiteURL       string
}

// New returns an engine with sessions, logging, metrics and every route installed.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(log.GinMiddleware(log.L()), gin.Recovery(), metrics.Instrument())

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 86400 * 30, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(d.SessionName, store))
	r.Use(middleware.LoadUser(d.Repos.Users))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	feeds := services.NewFeedService(d.Repos, d.PostsPerPage)
	content := services.NewContentService(d.Repos, d.Blobs, d.MaxImageSize)
	accounts := services.NewAccountService(d.Repos)
	graph := services.NewGraphService(d.Repos)

	feedHandler := handlers.NewFeedHandler(feeds, content)
	postHandler := handlers.NewPostHandler(content)
	followHandler := handlers.NewFollowHandler(graph, accounts)
	authHandler := handlers.NewAuthHandler(accounts)
	adminHandler := handlers.NewAdminHandler(accounts, d.Pages)
	mediaHandler := handlers.NewMediaHandler(d.Blobs)
	seoHandler := handlers.NewSEOHandler(content, d.SiteURL)

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)

	// Public
	r.GET("/", middleware.CachePage(d.Pages, d.PageTTL), feedHandler.Index)
	r.GET("/group/:slug/", feedHandler.Group)
	r.GET("/groups/", feedHandler.Groups)
	r.GET("/profile/:username/", feedHandler.Profile)
	r.GET("/posts/:id/", postHandler.Detail)
	r.GET("/media/*key", mediaHandler.Serve)

	auth := r.Group("/auth")
	{
		auth.POST("/signup/", authHandler.Signup)
		auth.POST("/login/", authHandler.Login)
		auth.POST("/logout/", authHandler.Logout)
	}

	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.NewForm)
		authorized.POST("/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.EditForm)
		authorized.POST("/posts/:id/edit/", postHandler.Edit)
		authorized.POST("/posts/:id/delete/", postHandler.Delete)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)
		authorized.POST("/comments/:id/edit/", postHandler.EditComment)

		authorized.GET("/follow/", feedHandler.Following)
		authorized.GET("/profile/:username/follow/", followHandler.Follow)
		authorized.POST("/profile/:username/follow/", followHandler.Follow)
		authorized.GET("/profile/:username/unfollow/", followHandler.Unfollow)
		authorized.POST("/profile/:username/unfollow/", followHandler.Unfollow)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.POST("/groups/", adminHandler.CreateGroup)
		admin.POST("/groups/:slug/delete/", adminHandler.DeleteGroup)
		admin.POST("/users/:username/delete/", adminHandler.DeleteUser)
		admin.POST("/cache/clear", adminHandler.ClearCache)
	}
}
