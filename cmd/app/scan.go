package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"OptEdge/internal/domain/models"
	"OptEdge/internal/usecase"
	"OptEdge/pkg/config"
)

func scanCmd(load runtimeLoader) *cobra.Command {
	var (
		tickers   string
		variant   string
		top       int
		perTicker int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one batch over the watch list and print ranked candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if variant != "" && variant != string(models.VariantFull) && variant != string(models.VariantBasic) {
				return fmt.Errorf("unsupported variant: %s", variant)
			}
			rt, cleanup, err := load()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := rt.Scanner.Run(cmd.Context(), usecase.ScanParams{
				Tickers:       config.SplitList(tickers),
				Variant:       models.Variant(variant),
				PerTickerTopK: perTicker,
				TopN:          top,
			})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printScan(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&tickers, "tickers", "", "comma separated tickers (default: configured watch list)")
	cmd.Flags().StringVar(&variant, "variant", "", "scoring variant: full or basic")
	cmd.Flags().IntVar(&top, "top", 0, "global top-N (default from config)")
	cmd.Flags().IntVar(&perTicker, "per-ticker", 0, "per-ticker top-K (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printScan(w io.Writer, res *models.ScanResult) error {
	printRegime(w, res.Regime)
	fmt.Fprintf(w, "run %s  variant %s  as of %s  took %s\n\n",
		res.RunID, res.Variant, res.AsOf.Format("2006-01-02 15:04"), res.Duration.Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tTicker\tType\tStrike\tSpot\tPremium\tDTE\tConfidence\tScore\tSize\t")
	for i, c := range res.Top {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%d\t%.3f\t%.3f\t%d\t\n",
			i+1, c.Ticker, c.ContractType, c.Strike, c.Spot, c.Premium, c.DaysToExpiry, c.Confidence, c.Score(), c.SuggestedSize)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, tr := range res.Tickers {
		if tr.SkipReason != "" {
			fmt.Fprintf(w, "skipped %s: %s\n", tr.Ticker, tr.SkipReason)
		}
	}
	return nil
}
