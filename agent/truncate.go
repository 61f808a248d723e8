package agent

import "fmt"

// DefaultToolOutputLimit caps tool output characters entering the history.
// Generous enough that ordinary outputs pass through byte-exact.
const DefaultToolOutputLimit = 30_000

// TruncateOutput applies head/tail truncation when output exceeds maxChars,
// keeping the start and end and noting how much was removed from the middle.
func TruncateOutput(output string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultToolOutputLimit
	}
	if len(output) <= maxChars {
		return output
	}
	half := maxChars / 2
	removed := len(output) - maxChars
	return output[:half] +
		fmt.Sprintf("\n\n[Tool output truncated: %d characters removed from the middle. "+
			"Re-run the tool with more targeted parameters if you need them.]\n\n", removed) +
		output[len(output)-half:]
}
