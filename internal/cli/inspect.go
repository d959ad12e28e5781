package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectEvents bool

func init() {
	cmd := &cobra.Command{
		Use:   "inspect <session-id>",
		Short: "Show a recorded session",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}
	cmd.Flags().BoolVarP(&inspectEvents, "events", "e", false, "Include the full event list")
	RootCmd.AddCommand(cmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	store, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer store.Close()

	sess, err := store.LoadSession(args[0])
	if err != nil {
		exitErr("load session", err)
	}

	if inspectEvents {
		printJSON(sess)
		return
	}

	fmt.Printf("session %s\n", sess.ID)
	fmt.Printf("  started: %s\n", sess.StartedAt.Format("2006-01-02 15:04:05"))
	if sess.EndedAt != nil {
		fmt.Printf("  ended:   %s\n", sess.EndedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("  events:  %d\n", len(sess.Events))
	for typ, n := range sess.Counters {
		fmt.Printf("    %s: %d\n", typ, n)
	}
}
