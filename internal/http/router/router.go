package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/http/handlers"
	"github.com/ignatzorin/portfolio-backend/internal/http/middleware"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

// SetupRouter собирает все маршруты сервиса.
func SetupRouter(
	cfg *config.Config,
	pageHandler *handlers.PageHandler,
	contentHandler *handlers.ContentHandler,
	saveHandler *handlers.SaveHandler,
	proxyHandler *handlers.ProxyHandler,
	loaderHandler *handlers.LoaderHandler,
	cmsHandler *handlers.CMSHandler,
	authHandler *handlers.AuthHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	authService *service.AuthService,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/", pageHandler.Index)
	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	// Публичные маршруты
	api.GET("/content", contentHandler.GetAll)
	api.GET("/content/:file", middleware.FileParamValidator("file"), contentHandler.GetFile)
	api.GET("/ws", wsHandler.Handle)
	api.POST("/loader/retry/:section", loaderHandler.RetrySection)

	// Ретранслятор GitHub обслуживает и preflight, и сам POST;
	// на остальные методы отвечает 405 сам хэндлер.
	api.Any("/update-file", proxyHandler.UpdateFile)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", authHandler.Login)
	}

	// Запись документов
	saveGroup := api.Group("/")
	saveGroup.Use(middleware.AuthMiddleware(authService))
	saveGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		saveGroup.POST("/save-data", saveHandler.SaveData)
		saveGroup.POST("/save-all-data", saveHandler.SaveAllData)
		saveGroup.POST("/media/photos", mediaHandler.UploadPhoto)
		saveGroup.DELETE("/media/photos/:name", mediaHandler.DeletePhoto)
	}

	// Редактор CMS
	cms := api.Group("/cms")
	cms.Use(middleware.AuthMiddleware(authService))
	{
		cms.GET("/data", cmsHandler.GetData)
		cms.POST("/reload", cmsHandler.Reload)
		cms.POST("/save", cmsHandler.Save)
		cms.POST("/test-connection", cmsHandler.TestConnection)

		cms.PATCH("/personal", cmsHandler.UpdatePersonal)
		cms.POST("/personal/bio", cmsHandler.AddBio)
		cms.PATCH("/personal/bio/:index", cmsHandler.UpdateBio)
		cms.POST("/personal/social-links", cmsHandler.AddSocialLink)
		cms.PATCH("/personal/social-links/:index", cmsHandler.UpdateSocialLink)
		cms.DELETE("/personal/social-links/:index", cmsHandler.RemoveSocialLink)

		cms.POST("/skills/:list", cmsHandler.AddSkill)
		cms.PATCH("/skills/:list/:index", cmsHandler.UpdateSkill)
		cms.DELETE("/skills/:list/:index", cmsHandler.RemoveSkill)

		cms.POST("/:collection", cmsHandler.AddItem)
		cms.PATCH("/:collection/:index", cmsHandler.UpdateItem)
		cms.DELETE("/:collection/:index", cmsHandler.RemoveItem)

		cms.POST("/:collection/:index/items", cmsHandler.AddNested)
		cms.PATCH("/:collection/:index/items/:item", cmsHandler.UpdateNested)
		cms.DELETE("/:collection/:index/items/:item", cmsHandler.RemoveNested)
	}

	return r
}
