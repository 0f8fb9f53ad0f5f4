package config

import "strings"

// AppVersion is the version of the tool, injected at build time.
var AppVersion string

// AppName is the name of the tool.
const AppName = "Brandcheck"

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// ReportFilename is the name of the campaign compliance report artifact
// written next to the generated assets.
const ReportFilename = "compliance_report.json"
