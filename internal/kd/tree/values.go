package tree

// values holds per-point payloads addressed by original input position.
// It is written once during Build and only read afterwards.
type values[T any] struct {
	data []T
}

func (v *values[T]) value(index int) T {
	var zero T
	if index < 0 || index >= len(v.data) {
		return zero
	}
	return v.data[index]
}
