package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
)

func rawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "raw <kind> <id>",
		Short: "Print the upstream XML of one entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := gamedata.ParseKind(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			data, _, closeCache, err := openService(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			raw, err := data.Raw(ctx, kind, args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), raw)
			return err
		},
	}
}
