package ptr

// New returns a pointer to v.
func New[T any](v T) *T { return &v }
