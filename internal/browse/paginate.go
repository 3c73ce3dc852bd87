package browse

// Paginate returns page (1-indexed) of items, size items per page. Pages
// outside the range are empty.
func Paginate[T any](items []T, page, size int) []T {
	// compare page numbers first; (page-1)*size overflows for huge pages
	if page < 1 || size <= 0 || page > TotalPages(len(items), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}

func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n-1)/size + 1
}

// PageNumbers lists the page buttons, 1..total.
func PageNumbers(total int) []int {
	out := make([]int, 0, max(total, 0))
	for i := 1; i <= total; i++ {
		out = append(out, i)
	}
	return out
}
