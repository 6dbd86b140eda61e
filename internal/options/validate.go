// Package options holds small helpers for validating mutually exclusive inputs.
package options

import "errors"

// ExactlyOne returns an error unless exactly one of set is true.
// none is reported when nothing is set and many when more than one is.
func ExactlyOne(none, many string, set ...bool) error {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New(none)
	case n > 1:
		return errors.New(many)
	}
	return nil
}
