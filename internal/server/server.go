package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-io/backend/internal/config"
	"github.com/inkwell-io/backend/internal/handler"
	"github.com/inkwell-io/backend/internal/lifecycle"
	"github.com/inkwell-io/backend/internal/middleware"
	"github.com/inkwell-io/backend/internal/ratelimit"
	"github.com/inkwell-io/backend/internal/repository"
	"github.com/inkwell-io/backend/internal/service"
	"github.com/inkwell-io/backend/internal/storage"
)

type Server struct {
	router     *gin.Engine
	config     *config.Config
	redis      *storage.RedisClient
	postgres   *storage.Postgres
	httpServer *http.Server
}

// New wires the repositories, services and handlers onto a gin router.
// counters backs every admission governor; redis and objectStore may be
// nil when those backends are disabled.
func New(cfg *config.Config, postgres *storage.Postgres, redis *storage.RedisClient, objectStore *storage.ObjectStore, counters ratelimit.CounterStore) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	accountRepo := repository.NewAccountRepository(postgres)
	blogRepo := repository.NewBlogRepository(postgres)
	forumRepo := repository.NewForumRepository(postgres)
	subscriptionRepo := repository.NewSubscriptionRepository(postgres)
	trafficRepo := repository.NewTrafficLogRepository(postgres)

	authService := service.NewAuthService(accountRepo, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	profileService := service.NewProfileService(accountRepo, redis)
	analyticsService := service.NewAnalyticsService(trafficRepo)
	lifecycleManager := lifecycle.NewManager(accountRepo, blogRepo)

	var uploadService *service.UploadService
	if objectStore != nil {
		uploadService = service.NewUploadService(objectStore)
	}

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(lifecycleManager, profileService, blogRepo)
	blogHandler := handler.NewBlogHandler(blogRepo, accountRepo, profileService)
	forumHandler := handler.NewForumHandler(forumRepo, accountRepo)
	subscribeHandler := handler.NewSubscribeHandler(subscriptionRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	middleware.InitTrafficLogger(trafficRepo, 1000)

	s := &Server{
		router:   router,
		config:   cfg,
		redis:    redis,
		postgres: postgres,
	}

	s.setupMiddleware(counters)
	s.setupRoutes(counters, authService, authHandler, profileHandler, blogHandler, forumHandler, subscribeHandler, analyticsHandler, uploadService)

	return s
}

// setupMiddleware installs the global chain. CORS runs before the
// strict-global governor so rejected responses still carry CORS headers,
// and the traffic logger runs before it so rejections are recorded.
func (s *Server) setupMiddleware(counters ratelimit.CounterStore) {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS(s.config.Server.FrontendURL))
	s.router.Use(middleware.TrafficLogger())

	// Registered before the strict-global governor so probes are never
	// throttled (gin middleware only binds to routes added after Use).
	s.router.GET("/health", s.healthCheck)

	strictGlobal := ratelimit.NewGovernor(counters, ratelimit.CategoryStrictGlobal,
		s.config.RateLimit.StrictGlobal.MaxRequests, s.config.RateLimit.StrictGlobal.Window)
	s.router.Use(middleware.RateLimit(strictGlobal))
}

func (s *Server) setupRoutes(
	counters ratelimit.CounterStore,
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	blogHandler *handler.BlogHandler,
	forumHandler *handler.ForumHandler,
	subscribeHandler *handler.SubscribeHandler,
	analyticsHandler *handler.AnalyticsHandler,
	uploadService *service.UploadService,
) {
	quota := s.config.RateLimit

	general := middleware.RateLimit(ratelimit.NewGovernor(counters, ratelimit.CategoryGeneral, quota.General.MaxRequests, quota.General.Window))
	write := middleware.RateLimit(ratelimit.NewGovernor(counters, ratelimit.CategoryWrite, quota.Write.MaxRequests, quota.Write.Window))
	auth := middleware.RateLimit(ratelimit.NewGovernor(counters, ratelimit.CategoryAuth, quota.Auth.MaxRequests, quota.Auth.Window))
	upload := middleware.RateLimit(ratelimit.NewGovernor(counters, ratelimit.CategoryUpload, quota.Upload.MaxRequests, quota.Upload.Window))
	search := middleware.RateLimit(ratelimit.NewGovernor(counters, ratelimit.CategorySearch, quota.Search.MaxRequests, quota.Search.Window))

	requireAuth := middleware.RequireAuth(authService)

	authGroup := s.router.Group("/api/auth", auth)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	profile := s.router.Group("/api/profile", general, requireAuth)
	{
		profile.POST("/sync", profileHandler.Sync)
		profile.DELETE("", profileHandler.DeleteAccount)
		profile.GET("/status", profileHandler.Status)
		profile.POST("/restore", profileHandler.RestoreAccount)
		profile.DELETE("/blog/:blogId", profileHandler.DeleteBlog)
		profile.POST("/blog/:blogId/restore", profileHandler.RestoreBlog)
		profile.GET("/blogs/deleted", profileHandler.DeletedBlogs)
	}

	blogs := s.router.Group("/api/blogs")
	{
		blogs.GET("/new", general, blogHandler.ListNew)
		blogs.GET("/search", search, blogHandler.Search)
		blogs.GET("/:id", general, blogHandler.Get)
	}

	forums := s.router.Group("/api/forums")
	{
		forums.GET("", general, forumHandler.List)
		forums.GET("/:id", general, forumHandler.Get)
		forums.GET("/:id/comments", general, forumHandler.ListComments)
		forums.POST("", write, requireAuth, forumHandler.Create)
		forums.POST("/comments", write, requireAuth, forumHandler.CreateComment)
	}

	s.router.GET("/api/subscribe/counts", general, requireAuth, subscribeHandler.Counts)

	if uploadService != nil {
		uploadHandler := handler.NewUploadHandler(uploadService)
		uploads := s.router.Group("/api/upload", upload, requireAuth)
		{
			uploads.POST("", uploadHandler.Upload)
			uploads.DELETE("", uploadHandler.Delete)
		}
	} else {
		log.Println("Object store not configured, upload routes disabled")
	}

	admin := s.router.Group("/admin", general, requireAuth)
	{
		admin.GET("/analytics/summary", analyticsHandler.Summary)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealthy := true
	if err := s.postgres.Ping(c.Request.Context()); err != nil {
		dbHealthy = false
		log.Printf("Database health check failed: %v", err)
	}

	redisHealthy := true
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()); err != nil {
			redisHealthy = false
			log.Printf("Redis health check failed: %v", err)
		}
	}

	status := "healthy"
	statusCode := http.StatusOK

	if !dbHealthy || !redisHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "inkwell-backend",
		"timestamp": time.Now().Unix(),
		"checks": gin.H{
			"database": dbHealthy,
			"redis":    redisHealthy,
		},
	})
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting server on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
