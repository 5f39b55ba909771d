package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"OptEdge/internal/domain/models"
)

func regimeCmd(load runtimeLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "regime",
		Short: "Classify the current market regime",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := load()
			if err != nil {
				return err
			}
			defer cleanup()
			printRegime(cmd.OutOrStdout(), rt.Scanner.Regime(cmd.Context()))
			return nil
		},
	}
}

func printRegime(w io.Writer, r models.MarketRegime) {
	fmt.Fprintf(w, "regime %s  vix %.2f (%s)  benchmark return %+.2f%%  vol %.2f%%\n",
		r.Label, r.VolatilityIndex, r.VIXSource, r.BenchmarkReturn*100, r.BenchmarkVolatility*100)
}
