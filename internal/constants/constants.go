package constants

// Authentication
const (
	ContextKeyUser    = "currentUser"
	MinPasswordLength = 6
	MinNameLength     = 2
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Uploads
const (
	// MaxUploadSize is the hard cap for a single uploaded file (10 MiB).
	MaxUploadSize = 10 * 1024 * 1024
)

// AllowedMimeTypes lists the upload content types the API accepts.
var AllowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
	"text/plain": true,
}
