package pdfrev

import "log/slog"

// DefaultMaxFileSize is the size limit applied unless MaxFileSize is set
const DefaultMaxFileSize int64 = 512 << 20

// analyzeOptions holds configuration for an analysis run
type analyzeOptions struct {
	// OCR languages; empty disables OCR of image-only pages
	ocrLanguages []string

	logger *slog.Logger

	// Files larger than this are rejected; 0 means no limit
	maxFileSize int64
}

// defaultOptions returns the default analysis options
func defaultOptions() analyzeOptions {
	return analyzeOptions{
		maxFileSize: DefaultMaxFileSize,
	}
}

// clone creates a deep copy of analyzeOptions
func (o analyzeOptions) clone() analyzeOptions {
	newOpts := analyzeOptions{
		logger:      o.logger,
		maxFileSize: o.maxFileSize,
	}
	if o.ocrLanguages != nil {
		newOpts.ocrLanguages = make([]string, len(o.ocrLanguages))
		copy(newOpts.ocrLanguages, o.ocrLanguages)
	}
	return newOpts
}
