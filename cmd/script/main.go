package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"stockscreener/cmd"
	"stockscreener/internal"
	"stockscreener/internal/domain"
	l2_service "stockscreener/internal/service/l2"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var (
	weightsFlag       string
	yearsAgoFlag      int
	limitFlag         int
	portfolioSizeFlag int
	keepThresholdFlag int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "screener",
		Short: "rank stocks and backtest ranking strategies",
	}
	rootCmd.PersistentFlags().StringVar(&weightsFlag, "weights", "", `metric weights as JSON, e.g. '{"peRatio": 50, "roic": 50}'`)

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "refresh the current factor snapshot from the data provider",
		RunE:  runIngest,
	}

	screenCmd := &cobra.Command{
		Use:   "screen",
		Short: "rank the universe by weighted score",
		RunE:  runScreen,
	}
	screenCmd.Flags().IntVar(&yearsAgoFlag, "years-ago", 0, "snapshot offset to rank")
	screenCmd.Flags().IntVar(&limitFlag, "limit", 20, "truncate the ranking to the top n")

	backtestCmd := &cobra.Command{
		Use:   "backtest [equalWeight|annualRebalance|holdWinners]",
		Short: "simulate a strategy over every available horizon",
		Args:  cobra.ExactArgs(1),
		RunE:  runBacktest,
	}
	backtestCmd.Flags().IntVar(&portfolioSizeFlag, "portfolio-size", 10, "number of stocks to hold")
	backtestCmd.Flags().IntVar(&keepThresholdFlag, "keep-threshold", 20, "holdWinners: keep holdings still ranked at or above this")

	rootCmd.AddCommand(ingestCmd, screenCmd, backtestCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func parseWeights() (domain.WeightVector, error) {
	raw := map[string]int{}
	if err := json.Unmarshal([]byte(weightsFlag), &raw); err != nil {
		return domain.WeightVector{}, fmt.Errorf("failed to parse --weights: %w", err)
	}
	return domain.NewWeightVector(raw)
}

func runIngest(_ *cobra.Command, _ []string) error {
	deps, err := cmd.InitializeDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	if deps.Db == nil {
		return fmt.Errorf("ingest requires a database, not a snapshot file")
	}

	return internal.IngestSnapshots(
		context.Background(),
		deps.Db,
		deps.GuruFocusClient,
		deps.TickerRepository,
		deps.SnapshotRepository,
	)
}

func runScreen(_ *cobra.Command, _ []string) error {
	deps, err := cmd.InitializeDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	weights, err := parseWeights()
	if err != nil {
		return err
	}

	ranked, err := deps.ApiHandler.RankingService.RankUniverse(context.Background(), l2_service.RankUniverseInput{
		YearsAgo: yearsAgoFlag,
		Weights:  weights,
		Limit:    limitFlag,
	})
	if err != nil {
		return err
	}

	for _, stock := range ranked {
		fmt.Printf("%3d  %-6s  %8.2f  %s\n", stock.OverallRank, stock.Symbol, stock.WeightedScore, stock.Name)
	}
	return nil
}

func runBacktest(_ *cobra.Command, args []string) error {
	deps, err := cmd.InitializeDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	weights, err := parseWeights()
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch args[0] {
	case "equalWeight":
		result, err := deps.ApiHandler.EqualWeightService.ComputeReturns(ctx, weights, portfolioSizeFlag)
		if err != nil {
			return err
		}
		return printJson(result)
	case "annualRebalance":
		result, err := deps.ApiHandler.AnnualRebalanceService.ComputeReturns(ctx, weights)
		if err != nil {
			return err
		}
		return printJson(result)
	case "holdWinners":
		result, err := deps.ApiHandler.HoldWinnersService.ComputeReturns(ctx, weights, portfolioSizeFlag, keepThresholdFlag)
		if err != nil {
			return err
		}
		return printJson(result)
	}
	return fmt.Errorf("unknown strategy %q", args[0])
}

func printJson(v interface{}) error {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}
