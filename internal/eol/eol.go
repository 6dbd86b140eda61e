// Package eol provides line-ending handling for merged fragments: a streaming
// normalizer built on golang.org/x/text/transform and the parser for the
// separator spellings accepted in job files and on the command line.
package eol

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/text/transform"
)

// Common line-ending sequences.
const (
	LF   = "\n"
	CRLF = "\r\n"
	CR   = "\r"
)

// MaxSequenceLen bounds rewrite sequences so one replacement always fits the
// destination buffer of a transform.Reader.
const MaxSequenceLen = 256

// Native returns the line separator of the host platform.
func Native() string {
	if runtime.GOOS == "windows" {
		return CRLF
	}
	return LF
}

var names = map[string]func() string{
	"lf":     func() string { return LF },
	"crlf":   func() string { return CRLF },
	"cr":     func() string { return CR },
	"native": Native,
}

// ParseSeparator turns a user-supplied spelling into the literal sequence.
// It accepts the names lf, crlf, cr and native (case-insensitive), Go escape
// sequences such as `\r\n`, and literal text.
func ParseSeparator(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("eol: separator must not be empty")
	}
	if fn, ok := names[strings.ToLower(s)]; ok {
		return fn(), nil
	}
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return "", fmt.Errorf("eol: invalid escape sequence in separator %q: %w", s, err)
	}
	if unquoted == "" {
		return "", fmt.Errorf("eol: separator must not be empty")
	}
	return unquoted, nil
}

// Describe returns a printable name for seq: lf, crlf, cr, or its quoted form.
func Describe(seq string) string {
	switch seq {
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	case CR:
		return "cr"
	}
	return strconv.Quote(seq)
}

// Normalizer rewrites every line break in a byte stream to a fixed sequence.
// "\r\n", "\n" and a bare "\r" each count as one line break.
type Normalizer struct {
	transform.NopResetter
	seq []byte
}

// NewNormalizer returns a Normalizer writing seq for each line break.
func NewNormalizer(seq string) *Normalizer {
	return &Normalizer{seq: []byte(seq)}
}

// Ensure Normalizer implements transform.Transformer at compile time.
var _ transform.Transformer = (*Normalizer)(nil)

// Transform implements transform.Transformer.
func (n *Normalizer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		run := bytes.IndexAny(src[nSrc:], "\r\n")
		if run < 0 {
			run = len(src) - nSrc
		}
		if run > 0 {
			m := copy(dst[nDst:], src[nSrc:nSrc+run])
			nDst += m
			nSrc += m
			if m < run {
				return nDst, nSrc, transform.ErrShortDst
			}
			continue
		}

		width := 1
		if src[nSrc] == '\r' {
			switch {
			case nSrc+1 < len(src):
				if src[nSrc+1] == '\n' {
					width = 2
				}
			case !atEOF:
				// The next chunk may start with the '\n' of a CRLF.
				return nDst, nSrc, transform.ErrShortSrc
			}
		}
		if len(dst)-nDst < len(n.seq) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], n.seq)
		nSrc += width
	}
	return nDst, nSrc, nil
}
