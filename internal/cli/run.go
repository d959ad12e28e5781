package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/behavior"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/engine"
	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/paradox"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Interactive engine session",
		Long:  "Start a recorded session and drive the engine from stdin.",
		Run:   runRun,
	}
	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	eng, err := engine.NewEngine(cfg)
	if err != nil {
		exitErr("build engine", err)
	}
	defer eng.Close()

	sessionID, err := eng.StartSession()
	if err != nil {
		exitErr("start session", err)
	}

	fmt.Println("Confusion engine ready.")
	fmt.Printf("  Session: %s | DB: %s\n", sessionID, getDBPath())
	fmt.Println("Commands: paradox <name> <intensity>, frustrate <trigger> <amount>,")
	fmt.Println("          tick, recover, post, state, metrics, prompt, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "quit" || fields[0] == "exit" {
			break
		}
		dispatch(eng, fields)
	}

	summary, err := eng.EndSession(sessionID)
	if err != nil {
		exitErr("end session", err)
	}
	printJSON(summary)
}

func dispatch(eng *engine.Engine, fields []string) {
	switch fields[0] {
	case "paradox":
		if len(fields) != 3 {
			fmt.Println("usage: paradox <name> <intensity>")
			return
		}
		intensity, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			fmt.Printf("bad intensity: %v\n", err)
			return
		}
		p, err := eng.AddParadox(paradox.Spec{Name: fields[1], Intensity: intensity})
		if err != nil {
			fmt.Printf("rejected: %v\n", err)
			return
		}
		fmt.Printf("added %s (%s)\n", p.Name, p.ID)
		printState(eng)

	case "frustrate":
		if len(fields) != 3 {
			fmt.Println("usage: frustrate <trigger> <amount>")
			return
		}
		amount, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			fmt.Printf("bad amount: %v\n", err)
			return
		}
		if exp := eng.AccumulateFrustration(fields[1], amount); exp != nil {
			fmt.Printf("explosion: %s (triggers: %s)\n", exp.Pattern, strings.Join(exp.Triggers, ", "))
		}
		printState(eng)

	case "tick":
		eng.Tick()
		printState(eng)

	case "recover":
		ok, results := eng.AttemptRecovery()
		for _, r := range results {
			fmt.Printf("  %s/%s: succeeded=%v\n", r.Zone, r.Strategy, r.Succeeded)
		}
		fmt.Printf("recovered: %v\n", ok)
		printState(eng)

	case "post":
		dec := eng.CheckPosting()
		if !dec.CanPost {
			fmt.Printf("blocked: %s", dec.Reason)
			if !dec.RetryAt.IsZero() {
				fmt.Printf(" (retry at %s)", dec.RetryAt.Format("15:04:05"))
			}
			fmt.Println()
			return
		}
		eng.RecordPost()
		fmt.Printf("posted (auto=%v, frequency x%.2f)\n", dec.CanAutoPost, dec.FrequencyMultiplier)

	case "state":
		printJSON(eng.State())

	case "metrics":
		printJSON(eng.SafetyMetrics())

	case "prompt":
		st := eng.State()
		fmt.Println(behavior.ProjectToPrompt(st.Behavior))

	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
}

func printState(eng *engine.Engine) {
	st := eng.State()
	fmt.Printf("magnitude=%.3f zone=%s coherence=%.3f paradoxes=%d metas=%d brake=%s\n",
		st.Vector.Magnitude, st.Zone, st.Behavior.Posting.Coherence,
		st.Paradoxes, st.Metas, st.BrakeLevel)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
