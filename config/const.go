package config

import "strings"

// AppVersion is the version of the tool, set at build time with -ldflags.
var AppVersion = "0.1.0"

// AppName is the name of the tool.
const AppName = "Cornermark"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the log file extension.
const LogExt = ".log"

// KeyringService is the OS keyring service that stores Cloudinary API secrets.
var KeyringService = strings.ToLower(AppName)

// Configuration sections and options.
const (
	SectionCloudinary = "cloudinary"
	SectionScript     = "script"

	OptCloudName                    = "cloud_name"
	OptAPIKey                       = "api_key"
	OptAPISecret                    = "api_secret"
	OptInputFolder                  = "input_folder"
	OptOutputFolder                 = "output_folder"
	OptBlackWatermarkTransformation = "black_watermark_transformation"
	OptWhiteWatermarkTransformation = "white_watermark_transformation"
)
