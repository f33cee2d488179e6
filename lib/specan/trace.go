package specan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseTrace parses a spectrum trace response: an optional IEEE 488.2
// definite-length block header ('#', one length-of-length digit, the payload
// length) followed by comma-separated amplitudes in dBm. Unparsable points
// are replaced by the median of the points that did parse; a trace with no
// parsable points at all is an error.
func ParseTrace(raw string) ([]float64, error) {
	data, err := stripBlockHeader(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, fmt.Errorf("empty trace data")
	}

	fields := strings.Split(data, ",")
	points := make([]float64, len(fields))
	var valid []float64
	var corrupt []int
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			corrupt = append(corrupt, i)
			continue
		}
		points[i] = v
		valid = append(valid, v)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no parsable points in trace data (%d fields)", len(fields))
	}
	med := median(valid)
	for _, i := range corrupt {
		points[i] = med
	}
	return points, nil
}

// stripBlockHeader removes a leading '#<n><len>' block header if present and
// checks the declared payload length against the data.
func stripBlockHeader(s string) (string, error) {
	if !strings.HasPrefix(s, "#") {
		return s, nil
	}
	if len(s) < 2 {
		return "", fmt.Errorf("truncated block header %q", s)
	}
	nd := int(s[1] - '0')
	if nd < 1 || nd > 9 {
		return "", fmt.Errorf("invalid block header digit %q", s[1])
	}
	if len(s) < 2+nd {
		return "", fmt.Errorf("truncated block header %q", s)
	}
	n, err := strconv.Atoi(s[2 : 2+nd])
	if err != nil {
		return "", fmt.Errorf("bad block length in header %q: %w", s[:2+nd], err)
	}
	payload := s[2+nd:]
	if len(payload) != n {
		return "", fmt.Errorf("block length mismatch: header says %d, got %d bytes", n, len(payload))
	}
	return payload, nil
}

// NoiseFloor estimates the noise floor of a trace in dBm: points more than
// 10 dB above the median are treated as signal and excluded, and the mean of
// the remainder is the estimate.
func NoiseFloor(trace []float64) float64 {
	if len(trace) == 0 {
		return 0
	}
	threshold := median(trace) + 10
	var sum float64
	var n int
	for _, v := range trace {
		if v < threshold {
			sum += v
			n++
		}
	}
	if n == 0 {
		return median(trace)
	}
	return sum / float64(n)
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 0 {
		return (s[m-1] + s[m]) / 2
	}
	return s[m]
}
