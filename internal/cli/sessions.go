package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		Run:   runSessions,
	}
	cmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Max sessions to list")
	RootCmd.AddCommand(cmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	store, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer store.Close()

	infos, err := store.ListSessions(sessionsLimit)
	if err != nil {
		exitErr("list sessions", err)
	}
	if len(infos) == 0 {
		fmt.Println("no sessions recorded")
		return
	}
	for _, info := range infos {
		ended := "open"
		if info.EndedAt != nil {
			ended = info.EndedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%s  started %s  ended %s  %d events\n",
			info.ID, info.StartedAt.Format("2006-01-02 15:04:05"), ended, info.EventCount)
	}
}
