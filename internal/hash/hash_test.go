package hash

import (
	"testing"

	"github.com/ctessum/sparse"
)

func TestArray(t *testing.T) {
	a := sparse.ZerosDense(1, 2, 2)
	b := sparse.ZerosDense(1, 4)
	if Array(a) == Array(b) {
		t.Error("arrays with different shapes have the same hash")
	}
	c := a.Copy()
	if Array(a) != Array(c) {
		t.Error("equal arrays have different hashes")
	}
	c.Elements[3] = 1
	if Array(a) == Array(c) {
		t.Error("arrays with different contents have the same hash")
	}
	if len(Array(a)) != 32 {
		t.Errorf("hash %s is not 128 bits", Array(a))
	}
}

func TestHashMap(t *testing.T) {
	m1 := map[string]interface{}{"a": 1.0, "b": "x", "c": []interface{}{1.0, 2.0}}
	m2 := map[string]interface{}{"c": []interface{}{1.0, 2.0}, "b": "x", "a": 1.0}
	for i := 0; i < 10; i++ {
		if Hash(m1) != Hash(m2) {
			t.Fatal("equal maps have different hashes")
		}
	}
	m2["a"] = 2.0
	if Hash(m1) == Hash(m2) {
		t.Error("different maps have the same hash")
	}
}
