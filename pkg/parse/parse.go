// Package parse scans the fixed-format reports printed by the boost tools.
// A schema declares, per line, the expected label prefix and the name of the
// field it yields; scanning fails on the first line that does not match, so
// a malformed report never produces a partial result.
package parse

import (
	"bufio"
	"github.com/bitrainforest/ipfs2filecoin/pkg/requesterror"
	"io"
	"strconv"
	"strings"
)

// Line is one expected line of a report. An empty Field marks an
// informational line: it must be present but its content is ignored.
type Line struct {
	Field  string
	Prefix string
}

func Scan(r io.Reader, schema []Line) (map[string]string, error) {
	scanner := bufio.NewScanner(r)
	fields := make(map[string]string)
	for _, line := range schema {
		if !scanner.Scan() {
			return nil, requesterror.ParseError{Field: fieldName(line)}
		}

		if line.Field == "" {
			continue
		}

		value, found := strings.CutPrefix(strings.TrimSpace(scanner.Text()), line.Prefix)
		if !found {
			return nil, requesterror.ParseError{Field: line.Field}
		}

		fields[line.Field] = strings.TrimSpace(value)
	}

	return fields, nil
}

func Uint(fields map[string]string, field string) (uint64, error) {
	value, err := strconv.ParseUint(fields[field], 10, 64)
	if err != nil {
		return 0, requesterror.ParseError{Field: field}
	}

	return value, nil
}

func Int(fields map[string]string, field string) (int64, error) {
	value, err := strconv.ParseInt(fields[field], 10, 64)
	if err != nil {
		return 0, requesterror.ParseError{Field: field}
	}

	return value, nil
}

func fieldName(line Line) string {
	if line.Field == "" {
		return "output"
	}

	return line.Field
}
