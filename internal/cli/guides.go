package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	guidesAppliance string
	guidesJSON      bool
)

var guidesCmd = &cobra.Command{
	Use:   "guides",
	Short: "Build a grouped repair guide for an appliance",
	Long: `Run several paraphrased searches for an appliance, merge and dedupe
the results, and group them by symptom (or by component when the
results cluster around specific parts).

Examples:
  partselect guides --appliance Refrigerator
  partselect guides --appliance Dishwasher --json`,
	RunE: runGuides,
}

func init() {
	rootCmd.AddCommand(guidesCmd)
	guidesCmd.Flags().StringVarP(&guidesAppliance, "appliance", "a", "", "appliance type (required)")
	guidesCmd.Flags().BoolVar(&guidesJSON, "json", false, "output as JSON")
	guidesCmd.MarkFlagRequired("appliance")
}

func runGuides(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cfg, rootDir)
	if err != nil {
		return err
	}
	defer eng.Close()

	guide, err := eng.guideUC.RepairGuides(guidesAppliance)
	if err != nil {
		return err
	}

	if guidesJSON {
		output, _ := json.MarshalIndent(guide, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Repair guide for %s (%s)\n", guide.ApplianceType, guide.Method)
	fmt.Printf("Total issues found: %d\n\n", guide.TotalIssuesFound)

	symptoms := make([]string, 0, len(guide.Symptoms))
	for s := range guide.Symptoms {
		symptoms = append(symptoms, s)
	}
	sort.Strings(symptoms)

	for _, symptom := range symptoms {
		group := guide.Symptoms[symptom]
		fmt.Printf("== %s (%d issues) ==\n", symptom, len(group.Sections))
		for _, sec := range group.Sections {
			fmt.Printf("  - %s (confidence: %.3f)\n", sec.IssueTitle, sec.ConfidenceScore)
			if sec.Description != "" {
				fmt.Printf("    %s\n", sec.Description)
			}
			for _, part := range sec.RelatedParts {
				fmt.Printf("    part: %s %s\n", part.Name, part.URL)
			}
		}
		fmt.Println()
	}

	if guide.Note != "" {
		fmt.Println(guide.Note)
	}

	return nil
}
