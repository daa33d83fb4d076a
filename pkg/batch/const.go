package batch

// DerivativeDirSuffix is appended to every mirrored output sub directory.
const DerivativeDirSuffix = " + Resized + Watermarked"

// Processing stages, reported with each failed result.
const (
	StageDecode   = "decode"
	StageAnalyze  = "analyze"
	StageUpload   = "upload"
	StageDownload = "download"
)

// Channel buffer sizes of the pipeline.
const (
	jobBufferSize    = 100
	resultBufferSize = 100
)

// supportedExtensions lists the image types picked up by the walker, lower case.
var supportedExtensions = map[string]bool{
	".jpg": true,
	".png": true,
}
