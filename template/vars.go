package template

import (
	"strconv"
	"strings"
)

// Vars is the data a template is rendered with.
type Vars map[string]any

// ParseVars reads "name=value" pairs. Values that parse as integers are
// stored as int64, everything else as the raw string. Entries without an
// "=" or with an empty name are returned in bad so the caller can report
// them; they are otherwise ignored.
func ParseVars(pairs []string) (vars Vars, bad []string) {
	vars = make(Vars, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			bad = append(bad, strings.TrimSpace(pair))
			continue
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			vars[name] = n
			continue
		}
		vars[name] = value
	}
	return vars, bad
}
