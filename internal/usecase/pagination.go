package usecase

import "strconv"

// PaginationEllipsis marks a gap in the page list.
const PaginationEllipsis = "..."

// GeneratePagination lists the page links shown around currentPage. Up to seven
// pages are listed in full; beyond that the list keeps the first and last pages
// and collapses the rest into ellipses.
func GeneratePagination(currentPage, totalPages int) []string {
	if totalPages <= 0 {
		return []string{}
	}
	if totalPages <= 7 {
		return pageRange(1, totalPages)
	}

	if currentPage <= 3 {
		return append(pageRange(1, 3), PaginationEllipsis, pageLabel(totalPages-1), pageLabel(totalPages))
	}

	if currentPage >= totalPages-2 {
		return append([]string{"1", "2", PaginationEllipsis}, pageRange(totalPages-2, totalPages)...)
	}

	return []string{
		"1",
		PaginationEllipsis,
		pageLabel(currentPage - 1),
		pageLabel(currentPage),
		pageLabel(currentPage + 1),
		PaginationEllipsis,
		pageLabel(totalPages),
	}
}

func pageRange(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for page := from; page <= to; page++ {
		out = append(out, pageLabel(page))
	}
	return out
}

func pageLabel(page int) string {
	return strconv.Itoa(page)
}
