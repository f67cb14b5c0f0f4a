package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/StevenVC-P/phpTemplateGenerator/internal/api/http"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/api/http/middleware"
	tghttp "github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/http"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	DB           *pgxpool.Pool
	Redis        *redis.Client
	Logger       *zap.Logger
	Templates    *tghttp.Handler
	// AllowOrigins defaults to every origin.
	AllowOrigins []string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(corsConfig(dep.AllowOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Templates != nil {
		dep.Templates.Register(api.Group("/templates"))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
