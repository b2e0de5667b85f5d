package helpers

// NullIfEmpty returns nil for an empty string so it is stored as SQL NULL
func NullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringOr dereferences s, or returns fallback when s is nil or empty
func StringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
