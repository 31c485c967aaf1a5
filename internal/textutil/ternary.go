package textutil

// Ternary returns whenTrue if cond holds, otherwise whenFalse. It keeps
// small either/or selections, like picking a context row's fallback, from
// ballooning into four-line if blocks.
func Ternary[T any](cond bool, whenTrue, whenFalse T) T {
	if cond {
		return whenTrue
	}
	return whenFalse
}
