package filesystem

import (
	"path/filepath"
	"strings"
)

// ResolvePath converts a file:// URI or bare path into a cleaned local path.
func ResolvePath(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	if uri == "" {
		return ""
	}
	return filepath.Clean(uri)
}
