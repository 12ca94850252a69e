package resources

import "embed"

//go:embed migrations categories.yml
var FS embed.FS
