package mesh

import "golang.org/x/exp/constraints"

// Number is the element constraint of the numeric reductions.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum adds the values of all valid primitives.
func Sum[I Index, T Number](a *Attribute[I, T]) T {
	var s T
	k := a.kind()
	for i := range a.Len() {
		if !a.mesh.isRemoved(k, i) {
			s += a.data[i]
		}
	}
	return s
}

// MinMax returns the extrema over all valid primitives. ok is false when
// there are none.
func MinMax[I Index, T constraints.Ordered](a *Attribute[I, T]) (lo, hi T, ok bool) {
	k := a.kind()
	for i := range a.Len() {
		if a.mesh.isRemoved(k, i) {
			continue
		}
		v := a.data[i]
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, ok
}
