package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/migueleog01/partselect/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "partselect",
	Short: "Appliance repair retrieval - index scraped repair data and search it",
	Long: `partselect indexes scraped appliance-repair JSON documents into a local
vector index and answers natural-language queries with ranked, cited passages.
When the embedding provider is unavailable it falls back to lexical search.

Example usage:
  partselect index                        # Build or load the index
  partselect query -q "ice maker broken"  # Search repair passages
  partselect guides --appliance Dishwasher`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./partselect.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}
