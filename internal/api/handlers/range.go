package handlers

import (
	"errors"
	"strconv"
	"strings"
)

// byteRange is a closed interval within an object of known size.
type byteRange struct {
	Start int64
	End   int64
}

func (br byteRange) Length() int64 { return br.End - br.Start + 1 }

var errUnsatisfiableRange = errors.New("requested range not satisfiable")

// parseRange interprets a Range request header against the object size.
// A nil result with a nil error means the whole object should be served;
// that covers both an absent header and one too mangled to honor. A range
// that names a position at or past the end of the object is unsatisfiable
// rather than clamped.
func parseRange(header string, total int64) (*byteRange, error) {
	if header == "" {
		return nil, nil
	}

	rest, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, nil
	}

	startStr, endStr, ok := strings.Cut(rest, "-")
	if !ok {
		return nil, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return nil, nil
	}

	end := total - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < start {
			return nil, nil
		}
	}

	if start >= total || end >= total {
		return nil, errUnsatisfiableRange
	}

	return &byteRange{Start: start, End: end}, nil
}
