package binding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type withSlice struct {
	Items []int
}

func TestIdentical(t *testing.T) {
	p := &struct{ N int }{1}
	q := &struct{ N int }{1}
	m := map[string]int{"a": 1}
	s := []int{1, 2, 3}
	f := func() {}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and zero", nil, 0, false},
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"int and int64", 1, int64(1), false},
		{"equal strings", "x", "x", true},
		{"same pointer", p, p, true},
		{"equal pointees", p, q, false},
		{"same map", m, m, true},
		{"equal maps", m, map[string]int{"a": 1}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:2], false},
		{"equal slices", s, []int{1, 2, 3}, false},
		{"same func", f, f, true},
		{"uncomparable struct", withSlice{s}, withSlice{s}, false},
		{"comparable struct", struct{ A int }{1}, struct{ A int }{1}, true},
		{"NaN", math.NaN(), math.NaN(), true},
		{"float32 NaN", float32(math.NaN()), float32(math.NaN()), true},
		{"NaN and number", math.NaN(), 1.0, false},
		{"equal floats", 1.5, 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identical(tt.a, tt.b))
		})
	}
}
