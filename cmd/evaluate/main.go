package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"example/engine-eval/app"
	"example/engine-eval/app/config"
	"example/engine-eval/app/models"

	"github.com/spf13/cobra"
)

var (
	timeMS int
	stages bool
)

var rootCmd = &cobra.Command{
	Use:   "evaluate <fen>",
	Short: "Evaluate a chess position with the configured UCI engine",
	Long: `Evaluate analyses a single FEN position and prints the result as JSON.

The engine binary, its options and the default time budget come from the
environment (.env is loaded automatically). With --stages the position is
re-analysed once per configured budget tier, cheapest first.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().IntVar(&timeMS, "time-ms", 0, "analysis budget in milliseconds (default ENGINE_DEFAULT_TIME_MS)")
	rootCmd.Flags().BoolVar(&stages, "stages", false, "walk the ANALYSIS_STAGES_MS ladder instead of a single budget")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.InitLogging(cfg.Logs)

	svc := app.NewService(app.NewSupervisor(cfg))
	defer svc.Shutdown()

	budgets := []int{timeMS}
	if stages {
		budgets = cfg.Engine.StagesMS
	} else if timeMS <= 0 {
		budgets = []int{cfg.Engine.DefaultTimeMS}
	}

	for _, budget := range budgets {
		res, err := svc.Evaluate(context.Background(), models.EvaluationRequest{
			Position:     args[0],
			TimeBudgetMS: budget,
		})
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
