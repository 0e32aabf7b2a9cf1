package lib

// NextID returns 1 + the highest id in items, or 1 for an empty collection.
// Ids are read through key, so stray non-numeric ids simply count as 0.
func NextID[T any](items []T, key func(T) int64) int64 {
	var highest int64
	for _, item := range items {
		highest = max(highest, key(item))
	}
	return highest + 1
}

// NextIDAfter is NextID that also never goes back to or below issued, the
// highest id ever handed out for the collection.
func NextIDAfter[T any](items []T, key func(T) int64, issued int64) int64 {
	return max(NextID(items, key), issued+1)
}
