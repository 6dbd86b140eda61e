package jobfile

import (
	"fmt"
	"os"
)

// expander substitutes ${VAR} and $VAR references in paths.
type expander struct {
	lookup         func(string) (string, bool)
	allowUndefined bool
}

func (x *expander) expand(s string) (string, error) {
	var missing string
	out := os.Expand(s, func(name string) string {
		v, ok := x.lookup(name)
		if !ok && missing == "" {
			missing = name
		}
		return v
	})
	if missing != "" && !x.allowUndefined {
		return "", fmt.Errorf("undefined variable %q", missing)
	}
	return out, nil
}
