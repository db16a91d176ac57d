package transform

import (
	"math"
	"testing"

	"golang-market-etl/internal/etl/frame"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	nan := math.NaN()
	f := frame.New([]string{"a", "b", "c"}, []frame.Row{
		{"a": math.Inf(1), "b": 1.5, "c": "x"},
		{"a": math.Inf(-1), "b": nan, "c": nil},
		{"a": float32(math.NaN()), "b": &nan, "c": int64(7)},
	})

	replaced := Sanitize(f)

	assert.Equal(t, 5, replaced)
	rows := f.Rows()
	assert.Nil(t, rows[0]["a"])
	assert.Equal(t, 1.5, rows[0]["b"])
	assert.Equal(t, "x", rows[0]["c"])
	assert.Nil(t, rows[1]["a"])
	assert.Nil(t, rows[1]["b"])
	assert.Nil(t, rows[2]["a"])
	assert.Nil(t, rows[2]["b"])
	assert.Equal(t, int64(7), rows[2]["c"])
}
