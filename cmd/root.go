/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docqa-be",
	Short: "Document-grounded question answering backend",
	Long: `docqa-be ingests PDF documents, splits them into overlapping text
chunks stored in MongoDB, and answers questions with retrieval-augmented
generation: every query rebuilds a nearest-neighbor index over the full
chunk store, retrieves the closest chunks and conditions a generative
model on them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}
