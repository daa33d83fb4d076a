package cloud

import "time"

// Cloudinary API endpoints
const (
	DefaultBaseURL = "https://api.cloudinary.com"
	uploadPathFmt  = "/v1_1/%s/image/upload"
)

// Request defaults
const (
	DefaultTimeout         = 2 * time.Minute
	namedTransformationPre = "t_"
)

// Upload parameters that never take part in the request signature.
var unsignedParams = map[string]bool{
	"file":          true,
	"api_key":       true,
	"cloud_name":    true,
	"resource_type": true,
	"signature":     true,
}
