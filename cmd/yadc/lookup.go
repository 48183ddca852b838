package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
	"github.com/PieInTheSky-Inc/yadc/internal/retriever"
	"github.com/PieInTheSky-Inc/yadc/internal/termrender"
	"github.com/PieInTheSky-Inc/yadc/pkg/details"
)

type lookupFlags struct {
	granularity string
	escaped     bool
	byID        bool
	asJSON      bool
	width       int
}

func lookupCmd(kind gamedata.Kind, short string) *cobra.Command {
	var flags lookupFlags
	cmd := &cobra.Command{
		Use:   string(kind) + " <name>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, kind, strings.Join(args, " "), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.granularity, "granularity", "g", "", "long, short, mini or embed")
	cmd.Flags().BoolVar(&flags.escaped, "escaped", false, "Print inside a literal block")
	cmd.Flags().BoolVar(&flags.byID, "id", false, "Treat the argument as an id")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().IntVar(&flags.width, "width", termrender.DefaultWidth, "Wrap output at this width")
	return cmd
}

func runLookup(cmd *cobra.Command, kind gamedata.Kind, query string, flags lookupFlags) error {
	ctx := context.Background()

	opts := gamedata.LookupOptions{Escaped: flags.escaped}
	if flags.granularity != "" {
		g, err := details.ParseGranularity(flags.granularity)
		if err != nil {
			return err
		}
		opts.Granularity = g
	}

	data, _, closeCache, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	var res *gamedata.Result
	if flags.byID {
		res, err = data.LookupID(ctx, kind, query, opts)
	} else {
		res, err = data.Lookup(ctx, kind, query, opts)
	}
	if errors.Is(err, retriever.ErrNotFound) || errors.Is(err, retriever.ErrTooManyResults) {
		cmd.Println(err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	return printResult(cmd, res, flags)
}

func printResult(cmd *cobra.Command, res *gamedata.Result, flags lookupFlags) error {
	out := cmd.OutOrStdout()
	if flags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	r := termrender.New(flags.width)
	if len(res.Embeds) > 0 {
		_, err := fmt.Fprintln(out, r.Embeds(res.Embeds))
		return err
	}
	_, err := fmt.Fprint(out, r.Lines(res.Lines))
	return err
}
