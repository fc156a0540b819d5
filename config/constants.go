package config

import "time"

// Supported image extensions for uploads and the sync commands.
var SupportedImageFormats = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff",
}

const (
	// Per-file size cap in megabytes.
	MaxFileSizeMB = 10
	// Files accepted in a single upload request.
	MaxUploadFiles = 20
	// Whole multipart request cap.
	MaxRequestBytes = 200 << 20
)

// Client request policy.
const (
	RequestTimeout = 30 * time.Second
	RetryAttempts  = 3
	RetryDelay     = time.Second
)

// ThumbnailWidth is the long-edge size of generated preview images.
const ThumbnailWidth = 480

// FilterStateFile is the fixed key under the data directory where the last
// session's filter state is round-tripped.
const FilterStateFile = "gallery-filters.json"
