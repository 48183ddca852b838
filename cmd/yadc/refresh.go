package main

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [kind...]",
		Short: "Re-fetch game data into the shared cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}
			ctx := context.Background()
			data, log, closeCache, err := openService(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			g, ctx := errgroup.WithContext(ctx)
			for _, kind := range kinds {
				g.Go(func() error {
					if err := data.Refresh(ctx, kind); err != nil {
						return err
					}
					log.Info("Refreshed game data", "kind", kind)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			cmd.Printf("refreshed %d kind(s)\n", len(kinds))
			return nil
		},
	}
}
