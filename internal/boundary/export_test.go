package boundary

// LiveAllocations exposes the allocation counter for ownership tests.
func LiveAllocations() int64 {
	return liveAllocations.Load()
}
