package domain

type Metadata struct {
	TotalElements int
	TotalPages    int
	IsLast        bool
}

// NewMetadata computes page metadata for a zero-based page number.
func NewMetadata(totalElements, pageNumber, pageSize int) *Metadata {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalElements + pageSize - 1) / pageSize
	}

	return &Metadata{
		TotalElements: totalElements,
		TotalPages:    totalPages,
		IsLast:        pageNumber >= totalPages-1,
	}
}
