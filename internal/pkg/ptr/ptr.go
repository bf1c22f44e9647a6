package ptr

// To returns a pointer to v. Handy for optional struct fields in tests and DTOs.
func To[T any](v T) *T {
	return &v
}
