package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or load the repair index",
	Long: `Build the vector index from the corpus directory, or load the persisted
snapshot when the corpus fingerprint is unchanged.

Examples:
  partselect index             # Load if fresh, build otherwise
  partselect index --rebuild   # Force full re-ingestion
  partselect index ./project   # Index a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "force re-ingestion regardless of fingerprint")
}

func runIndex(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid directory: %w", err)
		}
		rootDir = abs
	}

	eng, err := buildEngine(cfg, rootDir)
	if err != nil {
		return err
	}
	defer eng.Close()

	var bar *progressbar.ProgressBar
	eng.indexUC.SetProgress(func(processed, total int, currentFile string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	})

	fmt.Printf("Scanning %s...\n", cfg.CorpusDir(rootDir))

	result, err := eng.indexUC.BuildOrLoad(indexRebuild)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndex %s:\n", result.Status)
	fmt.Printf("  Documents:  %d\n", result.Snapshot.Meta.DocumentCount)
	fmt.Printf("  Model:      %s\n", result.Snapshot.Meta.ModelName)
	fmt.Printf("  Appliances: %s\n", strings.Join(result.Appliances, ", "))
	fmt.Printf("  Built at:   %s\n", result.Snapshot.Meta.BuiltAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("\nSnapshot stored at: %s\n", cfg.SnapshotDBPath(rootDir))
	return nil
}
