/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/logger"
	"github.com/tieubaoca/docqa-be/repository"
	"github.com/tieubaoca/docqa-be/service"
	"github.com/tieubaoca/docqa-be/types"
)

// ingestDocumentCmd represents the ingestDocument command
var ingestDocumentCmd = &cobra.Command{
	Use:   "ingest-document",
	Short: "Ingest a single PDF file from disk",
	Long: `Extracts and chunks one PDF file and stores the chunks, using the
same pipeline as the upload endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		if filePath == "" {
			log.Fatal("missing --file")
		}

		tags, _ := cmd.Flags().GetStringSlice("tags")
		result, err := ingestPaths(cmd.Context(), []string{filePath}, tags)
		if err != nil {
			log.Fatalf("Failed to ingest %s: %v", filePath, err)
		}
		log.Printf("Stored %d chunks from %s (batch %s)", result.ChunksAdded, filePath, result.BatchID)
	},
}

// ingestPaths wires the ingestion half of the pipeline for CLI use.
// Ingestion never invokes the generator, so none is constructed.
func ingestPaths(ctx context.Context, paths []string, tags []string) (*types.UploadResponse, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	zlog := logger.New(cfg.LogFile, cfg.Prod)
	defer zlog.Sync()

	mongoClient, err := database.NewMongoClient(ctx, cfg.MongoConfig)
	if err != nil {
		return nil, err
	}
	defer mongoClient.Disconnect(ctx)

	chunkRepo := repository.NewChunkRepo(
		mongoClient.Database(cfg.MongoConfig.Database).Collection(cfg.MongoConfig.Collection))
	chunkService, err := service.NewChunkService(types.ChunkServiceConfig{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	})
	if err != nil {
		return nil, err
	}

	ragService := service.NewRAGService(
		chunkRepo, service.NewPDFService(zlog), chunkService,
		service.NewOpenAIEmbedder(cfg.OpenAIConfig, zlog), nil,
		cfg.TopK, cfg.MaxContextChars, zlog)

	return ragService.IngestFiles(ctx, paths, tags)
}

func init() {
	rootCmd.AddCommand(ingestDocumentCmd)

	ingestDocumentCmd.Flags().StringP("file", "f", "", "Path to the PDF file to ingest")
	ingestDocumentCmd.Flags().StringSlice("tags", nil, "Tags stored into chunk metadata")
}
