package align

import "golang.org/x/exp/constraints"

// Offset returns the least value to add to base so that it becomes a
// multiple of aln. Zero when base is already aligned.
func Offset[T constraints.Unsigned](base T, aln T) T {
	if rem := base % aln; rem != 0 {
		return aln - rem
	}
	return 0
}
