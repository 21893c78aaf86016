package console

import (
	"math"
	"strconv"
	"strings"
)

// Request is one parsed console line.
type Request struct {
	Cmd Command
	Arg uint64
}

// ParseLine splits a line at the first ';' into a command code and a
// numeric argument. ok is false when the line carries no delimiter or the
// code is not in the table; a trailing carriage return is tolerated.
func ParseLine(line string) (Request, bool) {
	line = strings.TrimSuffix(line, "\r")
	i := strings.IndexByte(line, ';')
	if i < 0 {
		return Request{}, false
	}
	cmd, ok := commandCodes[strings.ToUpper(strings.TrimSpace(line[:i]))]
	if !ok {
		return Request{}, false
	}
	return Request{Cmd: cmd, Arg: parseArg(line[i+1:])}, true
}

// parseArg reads the leading decimal run of the argument text. Empty or
// non-numeric text parses as zero; a run past uint64 saturates.
func parseArg(text string) uint64 {
	text = strings.TrimSpace(text)
	n := 0
	for n < len(text) && text[n] >= '0' && text[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseUint(text[:n], 10, 64)
	if err != nil {
		return math.MaxUint64
	}
	return v
}
