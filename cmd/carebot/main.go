package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "carebot",
		Short:        "City Hospital WhatsApp menu assistant",
		Long:         "Answers WhatsApp messages with canned hospital menus, medication notes and symptom advice.",
		Version:      version,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(newServeCmd(), newClassifyCmd(), newJournalCmd())
	return root
}
