package cli

import (
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <session-id>",
		Short: "Analyze a recorded session",
		Long:  "Recompute the session analysis from its stored event log.",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyze,
	}
	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	store, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer store.Close()

	sess, err := store.LoadSession(args[0])
	if err != nil {
		exitErr("load session", err)
	}
	printJSON(session.Analyze(sess))
}
