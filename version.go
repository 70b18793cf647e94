package dogear

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release reported to the browser extension in reply to OPTIONS.
var Version = strings.TrimSpace(rawVersion)
