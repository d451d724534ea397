package config

import (
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type durationHolder struct {
	Interval time.Duration
	Start    time.Duration
	Other    string
}

func decode(t *testing.T, input map[string]interface{}) (durationHolder, error) {
	var out durationHolder
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DurationDecodeHook(),
		Result:     &out,
	})
	require.NoError(t, err)
	return out, decoder.Decode(input)
}

func TestDurationDecodeHook(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected time.Duration
	}{
		"seconds":  {input: "15s", expected: 15 * time.Second},
		"minutes":  {input: "2m", expected: 2 * time.Minute},
		"hours":    {input: "1h", expected: time.Hour},
		"days":     {input: "2d", expected: 48 * time.Hour},
		"compound": {input: "1h30m", expected: 90 * time.Minute},
		"zero":     {input: "0h", expected: 0},
		"empty":    {input: "", expected: 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := decode(t, map[string]interface{}{"interval": tc.input, "other": "15s"})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out.Interval)
			assert.Equal(t, "15s", out.Other)
		})
	}
}

func TestDurationDecodeHook_InvalidDuration(t *testing.T) {
	_, err := decode(t, map[string]interface{}{"start": "ten minutes"})
	assert.Error(t, err)
}

func TestDurationDecodeHook_NumbersWithoutUnit(t *testing.T) {
	tests := map[string]interface{}{
		"int":    15,
		"int64":  int64(15),
		"uint":   uint(15),
		"float":  15.0,
		"negint": -15,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decode(t, map[string]interface{}{"interval": input})
			assert.ErrorContains(t, err, "has no unit")
		})
	}
}

func TestDurationDecodeHook_ZeroNumber(t *testing.T) {
	out, err := decode(t, map[string]interface{}{"interval": 0, "start": 0.0})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), out.Interval)
	assert.Equal(t, time.Duration(0), out.Start)
}
