package mi

import (
	"strconv"
	"strings"

	"github.com/ctagard/gdbmi/pkg/errors"
)

// promptPrefix terminates a group of output records.
const promptPrefix = "(gdb)"

// header is the lexical split of one line: token, indicator, class and the
// offset at which the payload starts.
type header struct {
	token     *uint64
	indicator byte
	class     string
	payload   int
}

// IsPrompt reports whether line is the "(gdb)" group terminator rather than a record.
func IsPrompt(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), promptPrefix)
}

// scan splits line into its header. For stream records the class is empty
// and payload points at the opening quote.
func scan(line string) (header, error) {
	var h header
	i := 0

	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i > 0 {
		n, err := strconv.ParseUint(line[:i], 10, 64)
		if err != nil {
			return h, errors.MalformedLine(line, 0, "token", "an unsigned 64-bit integer").WithCause(err)
		}
		h.token = &n
	}

	if i >= len(line) {
		return h, errors.MalformedLine(line, i, "record", "record type indicator (^,*,+,=,~,@ or &)")
	}

	switch c := line[i]; c {
	case IndicatorResult, IndicatorExec, IndicatorStatus, IndicatorNotify:
		h.indicator = c
		i++
		start := i
		for i < len(line) && isClassChar(line[i]) {
			i++
		}
		if i == start {
			return h, errors.MalformedLine(line, i, "record", "result-class or async-class")
		}
		h.class = line[start:i]
		h.payload = i

	case IndicatorConsole, IndicatorTarget, IndicatorLog:
		h.indicator = c
		h.payload = i + 1

	default:
		return h, errors.MalformedLine(line, i, "record", "record type indicator (^,*,+,=,~,@ or &)")
	}

	return h, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// isClassChar matches characters of result and async class keywords.
func isClassChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

// isVariableChar matches characters of result variable names.
func isVariableChar(c byte) bool {
	return isClassChar(c) || c == '.'
}
