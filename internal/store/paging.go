package store

// pageBounds converts a zero-based page and page size into slice bounds over total items.
// ok is false when the page lies entirely past the end.
func pageBounds(page, size int, total int64) (start, end int64, ok bool) {
	if page < 0 || size <= 0 {
		return 0, 0, false
	}
	if int64(page) > total/int64(size) {
		return 0, 0, false
	}
	start = int64(page) * int64(size)
	if start >= total {
		return 0, 0, false
	}
	end = start + int64(size)
	if end > total {
		end = total
	}
	return start, end, true
}
