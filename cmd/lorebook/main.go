package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "lorebook",
		Short: "Keyword-triggered lore injection and fuzzy tag placement for LLM chat hosts",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(triggerCmd())
	root.AddCommand(placeCmd())
	root.AddCommand(varsCmd())
	root.AddCommand(entriesCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
