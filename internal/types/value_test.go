package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in      string
		wantNaN bool
		want    int64
	}{
		{"42", false, 42},
		{"-17", false, -17},
		{"+5", false, 5},
		{"  8", false, 8},
		{"12abc", false, 12},
		{"3.9", false, 3},
		{"-0", false, 0},
		{"abc", true, 0},
		{"", true, 0},
		{"-", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseValue(tt.in)
			assert.Equal(t, tt.wantNaN, v.NaN)
			if !tt.wantNaN {
				assert.Equal(t, tt.want, v.Int)
			}
			assert.Equal(t, tt.in, v.Raw)
		})
	}
}

func TestParseValue_BeyondInt64StaysNumeric(t *testing.T) {
	v := ParseValue("0099999999999999999999abc")
	assert.False(t, v.NaN)
	assert.Equal(t, "99999999999999999999", v.String())
	assert.Equal(t, "99999999999999999999", v.Display())

	neg := ParseValue("-99999999999999999999")
	assert.Equal(t, "-99999999999999999999", neg.String())

	k := KeyInsertion{K: v}
	assert.Equal(t, "k=99999999999999999999", EncodeParams(k.Params()))
}

func TestValue_StringAndDisplay(t *testing.T) {
	nan := ParseValue("abc")
	assert.Equal(t, "NaN", nan.String())
	assert.Equal(t, "abc", nan.Display())

	n := ParseValue("12abc")
	assert.Equal(t, "12", n.String())
	assert.Equal(t, "12", n.Display())
}

func TestEncodeParams_KeepsOrder(t *testing.T) {
	p := PointInsertion{X: IntValue(10), Y: IntValue(-3)}
	assert.Equal(t, "x=10&y=-3", EncodeParams(p.Params()))

	k := KeyInsertion{K: ParseValue("abc")}
	assert.Equal(t, "k=NaN", EncodeParams(k.Params()))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("rb")
	assert.NoError(t, err)
	assert.Equal(t, ModeRedBlackTree, m)

	m, err = ParseMode("Range-Tree")
	assert.NoError(t, err)
	assert.Equal(t, ModeRangeTree, m)

	_, err = ParseMode("avl")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestMode_Endpoints(t *testing.T) {
	assert.Equal(t, "/add-2d-range-tree", ModeRangeTree.Endpoint())
	assert.Equal(t, "/add-red-black-tree", ModeRedBlackTree.Endpoint())
	assert.Equal(t, []string{"x", "y"}, ModeRangeTree.Fields())
	assert.Equal(t, []string{"k"}, ModeRedBlackTree.Fields())
	assert.Equal(t, ModeRangeTree, ModeRedBlackTree.Other())
}
