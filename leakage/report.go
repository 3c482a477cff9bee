package leakage

import (
	"fmt"
	"strings"
)

// String renders the report in the teacher's log.Println-style short
// diagnostic form, for cmd/crgctlp's leakage subcommand.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "leakage: %d potentially obfuscated wire(s), %d intermediary wire(s)\n", r.PotentiallyObfuscatedWires, r.IntermediaryWires)
	if len(r.LeakedInputABits) == 0 {
		b.WriteString("leakage: no input-A bits inferable from circuit topology alone\n")
		return b.String()
	}
	fmt.Fprintf(&b, "leakage: %d input-A bit(s) potentially inferable from circuit topology: %v\n", len(r.LeakedInputABits), r.LeakedInputABits)
	return b.String()
}
