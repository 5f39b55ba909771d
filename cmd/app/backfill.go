package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domrepo "OptEdge/internal/domain/repository"
	"OptEdge/internal/usecase"
	"OptEdge/pkg/config"
)

func backfillCmd(load runtimeLoader) *cobra.Command {
	var tickers string
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Copy daily history for the watch list, benchmark and sector ETFs into ClickHouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cleanup, err := load()
			if err != nil {
				return err
			}
			defer cleanup()
			if rt.Store == nil {
				return errors.New("backfill needs clickhouse.host to be configured")
			}

			symbols := rt.Scanner.Universe(config.SplitList(tickers))
			bf := usecase.NewHistoryBackfill(rt.Source, rt.Store, domrepo.Lookback2y, rt.Logger)
			rep, err := bf.Run(cmd.Context(), symbols)
			for _, s := range symbols {
				if n, ok := rep.Rows[s]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%-6s %d rows\n", s, n)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&tickers, "tickers", "", "comma separated tickers (default: configured watch list)")
	return cmd
}
