package config

import (
	"fmt"
	"regexp"
	"strconv"
)

// Band is a parsed spectral-window selection of the form
// "field:low~high[unit]", for example "0:880~1680MHz".
type Band struct {
	Field int
	Low   int64
	High  int64
	Unit  string
}

var bandPattern = regexp.MustCompile(`^(\d+):(\d+)~(\d+)([A-Za-z]*)$`)

// ParseBand parses a spectral-window selection string.
func ParseBand(s string) (Band, error) {
	m := bandPattern.FindStringSubmatch(s)
	if m == nil {
		return Band{}, &ValueError{
			Key:    "workflow.spw",
			Value:  s,
			Reason: `expected "field:low~high[unit]", for example "0:880~1680MHz"`,
		}
	}

	field, _ := strconv.Atoi(m[1])
	low, _ := strconv.ParseInt(m[2], 10, 64)
	high, _ := strconv.ParseInt(m[3], 10, 64)
	if high <= low {
		return Band{}, &ValueError{
			Key:    "workflow.spw",
			Value:  s,
			Reason: "upper bound must exceed lower bound",
		}
	}
	return Band{Field: field, Low: low, High: high, Unit: m[4]}, nil
}

// String renders the band back into selection syntax.
func (b Band) String() string {
	return fmt.Sprintf("%d:%d~%d%s", b.Field, b.Low, b.High, b.Unit)
}

// SplitBand cuts a band into n contiguous windows covering it exactly.
// Window boundaries are computed with integer arithmetic so the same band
// always splits the same way.
func SplitBand(band string, n int) ([]string, error) {
	b, err := ParseBand(band)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, &ValueError{Key: "workflow.nspw", Value: n, Reason: "must be at least 1"}
	}

	span := b.High - b.Low
	if int64(n) > span {
		return nil, &ValueError{
			Key:    "workflow.nspw",
			Value:  n,
			Reason: fmt.Sprintf("band %s is too narrow to split %d ways", band, n),
		}
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		w := Band{
			Field: b.Field,
			Low:   b.Low + span*int64(i)/int64(n),
			High:  b.Low + span*int64(i+1)/int64(n),
			Unit:  b.Unit,
		}
		out[i] = w.String()
	}
	return out, nil
}
