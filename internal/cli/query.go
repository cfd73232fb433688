package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryText      string
	queryAppliance string
	queryTopK      int
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search indexed repair passages",
	Long: `Search for relevant repair passages using semantic retrieval, with
automatic fallback to lexical search when embeddings are unavailable.

Examples:
  partselect query -q "ice maker not working"
  partselect query -q "leaking door" --appliance Dishwasher --top-k 5 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().StringVarP(&queryAppliance, "appliance", "a", "", "filter by appliance type")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cfg, rootDir)
	if err != nil {
		return err
	}
	defer eng.Close()

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	resp, err := eng.retrieveUC.Search(queryText, queryAppliance, topK)
	if err != nil {
		return err
	}

	if queryJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(resp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s (%s)\n\n", resp.TotalFound, resp.Query, resp.Method)
	for i, r := range resp.Results {
		fmt.Printf("--- [%d] %s | %s (score: %.3f) ---\n", i+1, r.ApplianceType, r.SourceFile, r.Score)
		text := r.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
