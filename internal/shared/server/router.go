package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"advisor-backend/internal/advisor"
	"advisor-backend/internal/export"
	"advisor-backend/internal/llm"
	"advisor-backend/internal/llm/groq"
	"advisor-backend/internal/shared/config"
	"advisor-backend/internal/shared/server/middleware"
	"advisor-backend/internal/shared/server/respond"
	"advisor-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var analysisRepo advisor.Repo
	var chatRepo advisor.ChatRepo
	if sqlDB != nil {
		analysisRepo = &advisor.PGRepo{DB: sqlDB}
		chatRepo = &advisor.PGChatRepo{DB: sqlDB}
	} else {
		analysisRepo = advisor.NewMemoryRepo()
		chatRepo = advisor.NewMemoryChatRepo()
	}

	advisorSvc := &advisor.Service{
		Repo:     analysisRepo,
		Chat:     chatRepo,
		LLM:      newLLMClient(cfg),
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
	}
	limiter := middleware.NewWindowLimiter(cfg.RateLimitWindow, time.Now)
	limiter.StartSweeper(5 * time.Minute)

	advisorHandler := advisor.NewHandler(advisorSvc)
	advisorHandler.RateLimit = middleware.RateLimit(limiter)
	exportHandler := export.NewHandler()

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	advisorHandler.RegisterRoutes(api.Group("/advisor"))
	advisorHandler.RegisterDiagnosisRoutes(api.Group("/diagnosis"))
	exportHandler.RegisterRoutes(api.Group("/export"))

	return r
}

func newLLMClient(cfg config.Config) llm.Client {
	switch cfg.LLMProvider {
	case "groq":
		client, err := groq.NewClient(os.Getenv("GROQ_API_KEY"), cfg.LLMModel, cfg.LLMMaxTokens)
		if err != nil {
			log.Printf("groq client unavailable: %v", err)
			return llm.PlaceholderClient{}
		}
		return client
	default:
		log.Printf("unknown LLM provider %q, requests will fail until configured", cfg.LLMProvider)
		return llm.PlaceholderClient{}
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
