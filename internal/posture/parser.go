package posture

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptyLine = errors.New("empty line")
	ErrBadValue  = errors.New("bad reading value")
)

// valueWidth is the number of trailing characters holding the reading.
const valueWidth = 4

// codeTable maps the leading character of a line to its label.
var codeTable = []struct {
	code  byte
	label Label
}{
	{'B', Back},
	{'F', Front},
	{'R', Right},
	{'L', Left},
}

// LabelForCode returns the label selected by a line's leading character.
func LabelForCode(c byte) (Label, bool) {
	for _, entry := range codeTable {
		if entry.code == c {
			return entry.label, true
		}
	}
	return "", false
}

// ParseLine parses a sensor line of the form <code><anything><4-char value>,
// e.g. "B: 12.5" or "Front 0.73". Lines with an unknown leading character
// return ok == false and no error.
func ParseLine(line string) (r Reading, ok bool, err error) {
	if line == "" {
		return Reading{}, false, ErrEmptyLine
	}

	label, known := LabelForCode(line[0])
	if !known {
		return Reading{}, false, nil
	}

	if len(line) < valueWidth {
		return Reading{}, false, fmt.Errorf("%w: %q too short", ErrBadValue, line)
	}
	suffix := strings.TrimSpace(line[len(line)-valueWidth:])
	v, err := strconv.ParseFloat(suffix, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return Reading{}, false, fmt.Errorf("%w: %q", ErrBadValue, line)
	}

	return Reading{Label: label, Value: v}, true, nil
}
