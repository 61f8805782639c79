package model

import "time"

// ReadingPosition records where the reader left off in a book.
type ReadingPosition struct {
	SectionIndex int       `json:"sectionIndex"`
	Percentage   float64   `json:"percentage"`
	LastRead     time.Time `json:"lastRead"`
}

// Book is the persisted library record for one uploaded document. The
// extracted content itself is stored separately as a blob keyed by ID.
type Book struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CoverImage      string          `json:"coverImage,omitempty"`
	ReadingPosition ReadingPosition `json:"readingPosition"`
	Metadata        Metadata        `json:"metadata"`
	AddedAt         time.Time       `json:"addedAt"`
}
