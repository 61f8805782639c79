// Package model provides the shared data structures for the extraction and
// pagination engine.
//
// All extraction operations produce an [ExtractionResult], which is the
// serialized content record for a book. Pagination produces [Section] values
// sized against a [Capacity], and the render layer consumes
// [ProcessedSection] values derived from them.
//
// # Results
//
// An [ExtractionResult] either carries usable text or is marked failed:
//
//	res := pdfdoc.Extract(data)
//	if res.ExtractionFailed {
//	    // fall back to page-view mode using res.OriginalPages
//	}
//
// Extraction insufficiency is data, not an error. Callers only see Go errors
// for unsupported input formats and genuine I/O failures.
//
// # Sections
//
// A [Section] is a contiguous, capacity-bounded slice of the normalized text.
// Section IDs are dense and strictly increasing from 0, and concatenating all
// section contents reproduces the normalized text up to whitespace trimming.
package model
