package fluidscene

import (
	"math"
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

func TestSummarize(t *testing.T) {
	a := newDense([]int{1, 2, 1}, []float64{3, -4})
	s := Summarize(a)
	want := Summary{Shape: []int{1, 2, 1}, Min: -4, Max: 3, Mean: -0.5, Norm: 5}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("have %+v, want %+v", s, want)
	}

	e := Summarize(sparse.ZerosDense(1, 0))
	if !math.IsNaN(e.Min) || !math.IsNaN(e.Mean) || e.Norm != 0 {
		t.Errorf("empty array: %+v", e)
	}
}
