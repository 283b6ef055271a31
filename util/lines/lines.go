package lines

import (
	"fmt"
	"strings"
)

// Lines is a simple helper for building multi-line displayable text
type Lines struct {
	prefix string
	l      []string
}

func New(prefix ...string) *Lines {
	pref := ""
	if len(prefix) > 0 {
		pref = prefix[0]
	}
	return &Lines{
		prefix: pref,
		l:      make([]string, 0),
	}
}

func (ln *Lines) Add(format string, args ...any) *Lines {
	ln.l = append(ln.l, fmt.Sprintf(format, args...))
	return ln
}

func (ln *Lines) Append(ln1 *Lines) *Lines {
	ln.l = append(ln.l, ln1.l...)
	return ln
}

func (ln *Lines) String() string {
	return ln.prefix + strings.Join(ln.l, "\n"+ln.prefix)
}

func (ln *Lines) Join(sep string) string {
	return strings.Join(ln.l, sep)
}

func (ln *Lines) Slice() []string {
	return ln.l
}
