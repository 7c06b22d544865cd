/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/handler"
	"github.com/tieubaoca/docqa-be/logger"
	"github.com/tieubaoca/docqa-be/repository"
	"github.com/tieubaoca/docqa-be/service"
	"github.com/tieubaoca/docqa-be/types"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document QA server",
	Long:  `Starts the HTTP server handling document uploads and questions.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		zlog := logger.New(cfg.LogFile, cfg.Prod)
		defer zlog.Sync()

		ctx := context.Background()
		mongoClient, err := database.NewMongoClient(ctx, cfg.MongoConfig)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(ctx)

		chunkRepo := repository.NewChunkRepo(
			mongoClient.Database(cfg.MongoConfig.Database).Collection(cfg.MongoConfig.Collection))

		pdfService := service.NewPDFService(zlog)
		chunkService, err := service.NewChunkService(types.ChunkServiceConfig{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		})
		if err != nil {
			log.Fatalf("Invalid chunking config: %v", err)
		}
		embedder := service.NewOpenAIEmbedder(cfg.OpenAIConfig, zlog)

		generator, err := buildGenerator(ctx, cfg, zlog)
		if err != nil {
			log.Fatalf("Failed to initialize generator: %v", err)
		}

		ragService := service.NewRAGService(
			chunkRepo, pdfService, chunkService, embedder, generator,
			cfg.TopK, cfg.MaxContextChars, zlog)

		fileService, err := service.NewFileService(cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize upload dir: %v", err)
		}

		corsHandler := handler.NewCorsHandler()
		healthHandler := handler.NewHealthHandler()
		uploadHandler := handler.NewUploadHandler(fileService, ragService)
		queryHandler := handler.NewQueryHandler(ragService)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/", healthHandler.HandleHealth)
		router.GET("/healthz", healthHandler.HandleHealth)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/documents/upload", uploadHandler.HandleUpload)
			apiV1.POST("/query", queryHandler.HandleQuery)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func buildGenerator(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (service.Generator, error) {
	switch cfg.Generator {
	case "gemini":
		return service.NewGeminiService(ctx, cfg.GeminiConfig, zlog)
	case "openai", "":
		return service.NewOpenAIService(cfg.OpenAIConfig, zlog), nil
	default:
		return nil, fmt.Errorf("unknown generator %q", cfg.Generator)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
