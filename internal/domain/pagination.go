package domain

// TotalPages returns ceil(totalItems / itemsPerPage). Zero items yield zero pages.
func TotalPages(totalItems, itemsPerPage int) int {
	if totalItems <= 0 || itemsPerPage <= 0 {
		return 0
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}

// CanGoPrevious reports whether a page precedes currentPage
func CanGoPrevious(currentPage int) bool {
	return currentPage > 1
}

// CanGoNext reports whether a page follows currentPage. With zero pages both
// directions are disabled.
func CanGoNext(currentPage, totalPages int) bool {
	return currentPage < totalPages
}

// PaginationState holds the inputs for pagination controls. CurrentPage is not
// clamped to TotalPages; navigation past the end is prevented by HasNext.
type PaginationState struct {
	CurrentPage  int
	TotalItems   int
	ItemsPerPage int
}

// NewPaginationState validates the page size and floors the current page at 1
func NewPaginationState(currentPage, totalItems, itemsPerPage int) (PaginationState, error) {
	if itemsPerPage <= 0 {
		return PaginationState{}, ErrInvalidPageSize
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}
	return PaginationState{
		CurrentPage:  currentPage,
		TotalItems:   totalItems,
		ItemsPerPage: itemsPerPage,
	}, nil
}

func (p PaginationState) TotalPages() int {
	return TotalPages(p.TotalItems, p.ItemsPerPage)
}

func (p PaginationState) HasPrevious() bool {
	return CanGoPrevious(p.CurrentPage)
}

func (p PaginationState) HasNext() bool {
	return CanGoNext(p.CurrentPage, p.TotalPages())
}
