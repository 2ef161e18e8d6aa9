package utils_test

import (
	"testing"

	"transease/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Int", 21, 21},
		{"Int64", int64(2121), 2121},
		{"Float", float64(50), 50},
		{"String", " 300 ", 300},
		{"Bytes", []byte("8"), 8},
		{"Bool", true, 1},
		{"Garbage", "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToInt(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"String", "gb18030", "gb18030"},
		{"Int", 21, "21"},
		{"WholeFloat", float64(2121), "2121"},
		{"Fraction", 1.5, "1.5"},
		{"True", true, "True"},
		{"False", false, "False"},
		{"Nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToString(tt.in))
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "yes", "True", "ON", " true "} {
		b, err := utils.ParseBool(s)
		assert.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"0", "no", "False", "off"} {
		b, err := utils.ParseBool(s)
		assert.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := utils.ParseBool("maybe")
	assert.Error(t, err)

	assert.True(t, utils.ToBool("yes"))
	assert.False(t, utils.ToBool(2))
}
