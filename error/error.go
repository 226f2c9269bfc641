package error

import (
	"bufio"
	"fmt"
	"strings"
)

// ParseError decorates a parsing failure with the expression it occurred in.
// Error renders the offending line and points a caret at the column:
//
// error: 1:5: unexpected token: '*' (mul); expected: number, -, (
//     2 + * 3
//         ^
type ParseError struct {
	Cause      error
	Expression string

	// Row and Col are 0-based, as the driver reports them.
	Row int
	Col int
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := pickLine(e.Expression, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
		if e.Col >= 0 && e.Col <= len(line) {
			fmt.Fprintf(&b, "\n    %v^", strings.Repeat(" ", e.Col))
		}
	}

	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func pickLine(src string, row int) string {
	if src == "" || row < 0 {
		return ""
	}

	i := 0
	s := bufio.NewScanner(strings.NewReader(src))
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
