package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
)

func main() {
	root := &cobra.Command{
		Use:   "yadc",
		Short: "Pixel Starships game data lookups",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(lookupCmd(gamedata.KindItem, "Look up items by name"))
	root.AddCommand(lookupCmd(gamedata.KindResearch, "Look up research by name"))
	root.AddCommand(lookupCmd(gamedata.KindRoom, "Look up rooms by name"))
	root.AddCommand(rawCmd())
	root.AddCommand(refreshCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
