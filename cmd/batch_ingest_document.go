/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// batchIngestDocumentCmd represents the batchIngestDocument command
var batchIngestDocumentCmd = &cobra.Command{
	Use:   "batch-ingest-document",
	Short: "Ingest every PDF file in a directory as one batch",
	Long: `Extracts and chunks every PDF in the given directory and stores the
chunks as a single batch. The batch is all-or-nothing: if any file
fails extraction, nothing is stored.`,
	Run: func(cmd *cobra.Command, args []string) {
		directory, _ := cmd.Flags().GetString("directory")
		if directory == "" {
			log.Fatal("missing --directory")
		}

		entries, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("Failed to read directory: %v", err)
		}
		var paths []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				continue
			}
			paths = append(paths, filepath.Join(directory, entry.Name()))
		}

		tags, _ := cmd.Flags().GetStringSlice("tags")
		result, err := ingestPaths(cmd.Context(), paths, tags)
		if err != nil {
			log.Fatalf("Failed to ingest batch: %v", err)
		}
		log.Printf("Stored %d chunks from %d files (batch %s)", result.ChunksAdded, result.Files, result.BatchID)
	},
}

func init() {
	rootCmd.AddCommand(batchIngestDocumentCmd)

	batchIngestDocumentCmd.Flags().String("directory", "", "Path to the directory of PDFs to ingest")
	batchIngestDocumentCmd.Flags().StringSlice("tags", nil, "Tags stored into chunk metadata")
}
