package specan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(payload string) string {
	n := len(payload)
	digits := len(fmt.Sprintf("%d", n))
	return fmt.Sprintf("#%d%d%s", digits, n, payload)
}

func TestParseTraceBareCSV(t *testing.T) {
	got, err := ParseTrace("-90.1,-89.7,-21.3,-90.5")
	require.NoError(t, err)
	assert.Equal(t, []float64{-90.1, -89.7, -21.3, -90.5}, got)
}

func TestParseTraceBlockHeader(t *testing.T) {
	got, err := ParseTrace(block("-90.0,-89.5,-91.0"))
	require.NoError(t, err)
	assert.Equal(t, []float64{-90.0, -89.5, -91.0}, got)
}

func TestParseTraceCorruptPointsGetMedian(t *testing.T) {
	got, err := ParseTrace("-90,xx,-88,-92")
	require.NoError(t, err)
	// Median of the valid points (-90, -88, -92) replaces the corrupt one.
	assert.Equal(t, []float64{-90, -90, -88, -92}, got)
}

func TestParseTraceErrors(t *testing.T) {
	bad := []string{
		"",
		"xx,yy",
		"#",
		"#0abc",
		"#25-90.0,-89.5", // declared length 5, payload longer
	}
	for _, raw := range bad {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseTrace(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseTraceLong(t *testing.T) {
	fields := make([]string, 551)
	for i := range fields {
		fields[i] = "-90.0"
	}
	fields[275] = "-20.5"
	raw := block(strings.Join(fields, ","))

	got, err := ParseTrace(raw)
	require.NoError(t, err)
	require.Len(t, got, 551)
	assert.Equal(t, -20.5, got[275])
}

func TestNoiseFloorExcludesPeaks(t *testing.T) {
	trace := []float64{-90, -90, -90, -90, -20, -90, -90, -90}
	// The -20 dBm peak is more than 10 dB above the -90 median, so the
	// floor is the mean of the remaining points.
	assert.InDelta(t, -90, NoiseFloor(trace), 1e-9)
}

func TestNoiseFloorFlatTrace(t *testing.T) {
	trace := []float64{-80, -80.5, -79.5, -80}
	assert.InDelta(t, -80, NoiseFloor(trace), 1e-9)
}

func TestNoiseFloorEmpty(t *testing.T) {
	assert.Zero(t, NoiseFloor(nil))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, -90.0, median([]float64{-92, -90, -88}))
	assert.Equal(t, -89.0, median([]float64{-90, -88}))
	assert.Equal(t, 5.0, median([]float64{5}))
}
