package readlite

import "go.uber.org/zap"

// ExtractOptions holds configuration for document extraction.
type ExtractOptions struct {
	// Source hints
	filename string // original upload name, used for extension sniffing
	mimeType string // declared content type, validated before any parsing

	// Services
	logger *zap.Logger
	ocr    OCRClient
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		logger: zap.NewNop(),
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		filename: o.filename,
		mimeType: o.mimeType,
		logger:   o.logger,
		ocr:      o.ocr,
	}
}
