package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"recipe-cost/internal/core/pricing"
	"recipe-cost/internal/infrastructure/config"
	"recipe-cost/internal/pkg/common"

	"github.com/spf13/cobra"
)

var (
	estimateJSON   bool
	estimatePrices string
)

// estimateOutput --json 輸出格式
type estimateOutput struct {
	Ingredients []string          `json:"ingredients"`
	Breakdown   []estimateLine    `json:"breakdown"`
	Total       string            `json:"total"`
	Skipped     []pricing.Skipped `json:"skipped"`
	Complete    bool              `json:"complete"`
}

type estimateLine struct {
	Name   string `json:"name"`
	Price  string `json:"price"`
	Source string `json:"source"`
}

var estimateCmd = &cobra.Command{
	Use:   "estimate [file]",
	Short: "Estimate the cost of a recipe",
	Long: `Reads a Markdown recipe from the given file, or from stdin when no file
is given, and prints the estimated ingredient costs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "output the breakdown as JSON")
	estimateCmd.Flags().StringVar(&estimatePrices, "prices", "", "price table file (yaml, json or toml)")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	text, err := readRecipe(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("recipe is empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if estimatePrices != "" {
		cfg.Pricing.TableFile = estimatePrices
	}

	table, err := config.LoadPriceTable(cfg.Pricing.TableFile)
	if err != nil {
		return err
	}

	svc, cleanup, err := newPricingService(cfg, table)
	if err != nil {
		return err
	}
	defer cleanup()

	ingredients, b := svc.EstimateRecipe(context.Background(), text)

	if estimateJSON {
		return outputEstimateJSON(cmd, ingredients, b)
	}

	if len(ingredients) == 0 {
		cmd.PrintErrln("no ingredients section found")
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), pricing.FormatCostSection(b))
	return err
}

func readRecipe(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read recipe: %w", err)
	}
	return string(data), nil
}

func outputEstimateJSON(cmd *cobra.Command, ingredients []string, b *pricing.Breakdown) error {
	out := estimateOutput{
		Ingredients: ingredients,
		Breakdown:   make([]estimateLine, 0, len(b.Entries)),
		Total:       b.Total.StringFixed(2),
		Skipped:     b.Skipped,
		Complete:    b.Complete(),
	}
	for _, e := range b.Entries {
		out.Breakdown = append(out.Breakdown, estimateLine{Name: e.Name, Price: e.Price.StringFixed(2), Source: e.Source})
	}

	data, err := common.ToIndentedJSON(out)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
	return err
}
