package behavior

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/confusion"
)

// #region project

// ProjectToPrompt renders the current behavioral state as a block the host
// runtime prepends to its generation prompt. Returns empty when behavior
// is indistinguishable from baseline so quiet states add no prompt noise.
func ProjectToPrompt(b confusion.BehavioralState) string {
	baseline := confusion.DefaultBehavioralState()
	if b == baseline {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("[BEHAVIORAL STATE]\n")
	sb.WriteString(fmt.Sprintf("- tone: %s, length: %s\n", b.Posting.Tone, b.Posting.Length))
	sb.WriteString(fmt.Sprintf("- coherence: %.0f%%, posting frequency: %.2fx\n",
		b.Posting.Coherence*100, b.Posting.Frequency))
	sb.WriteString(fmt.Sprintf("- investigation: %s (depth %.0f%%, breadth %.0f%%)\n",
		b.Investigation.Method, b.Investigation.Depth*100, b.Investigation.Breadth*100))
	sb.WriteString(fmt.Sprintf("- questioning intensity: %.0f%%\n",
		b.Interaction.QuestioningIntensity*100))
	return sb.String()
}

// WrapPrompt prepends the behavioral state block to a prompt.
// If block is empty, returns the prompt unchanged.
func WrapPrompt(block, prompt string) string {
	if block == "" {
		return prompt
	}
	return block + "\n[PROMPT]\n" + prompt
}

// #endregion project
