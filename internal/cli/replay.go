package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/scenario"
)

var replayVerbose bool

func init() {
	cmd := &cobra.Command{
		Use:   "replay <fixture.json>",
		Short: "Replay a scenario fixture",
		Long:  "Run a scripted fixture against a fresh seeded engine and check its expectations.",
		Args:  cobra.ExactArgs(1),
		Run:   runReplay,
	}
	cmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "Print per-step results")
	RootCmd.AddCommand(cmd)
}

func runReplay(cmd *cobra.Command, args []string) {
	fixture, err := scenario.LoadFixture(args[0])
	if err != nil {
		exitErr("load fixture", err)
	}

	report, err := scenario.Run(fixture)
	if err != nil {
		exitErr("run fixture", err)
	}

	if replayVerbose {
		for _, r := range report.Results {
			status := "ok"
			if r.Rejected {
				status = "rejected: " + r.Reason
			}
			fmt.Printf("  step %d %-10s magnitude=%.3f zone=%-6s %s\n",
				r.Index, r.Kind, r.Magnitude, r.Zone, status)
		}
	}

	fails := scenario.Verify(fixture, report)
	if len(fails) == 0 {
		fmt.Printf("PASS: %s (%d steps)\n", report.Description, len(report.Results))
		return
	}
	fmt.Printf("FAIL: %s\n", report.Description)
	for _, f := range fails {
		fmt.Printf("  %s\n", f)
	}
	os.Exit(1)
}
