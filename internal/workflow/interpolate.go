package workflow

import "strings"

// Interpolate substitutes ${var} references with workflow variables and
// ${outputs.key} references with published step outputs.
//
// Substitution is plain string replacement. Unresolved references pass
// through verbatim; an unknown variable is deliberately not an error so
// prompts can carry literal ${...} text for the agent.
func Interpolate(prompt string, vars, outputs map[string]string) string {
	result := prompt

	for key, value := range vars {
		result = strings.ReplaceAll(result, "${"+key+"}", value)
	}
	for key, value := range outputs {
		result = strings.ReplaceAll(result, "${outputs."+key+"}", value)
	}

	return result
}
