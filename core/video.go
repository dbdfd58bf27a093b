package core

import (
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]struct{}{
	".3g2": {}, ".3gp": {}, ".avi": {}, ".divx": {}, ".flv": {}, ".iso": {},
	".m2ts": {}, ".m4v": {}, ".mkv": {}, ".mk3d": {}, ".mov": {}, ".mp2": {},
	".mp4": {}, ".mpe": {}, ".mpeg": {}, ".mpg": {}, ".mts": {}, ".ogm": {},
	".ogv": {}, ".ts": {}, ".vob": {}, ".webm": {}, ".wmv": {}, ".xvid": {},
}

// HasVideoExtension reports whether name (a file name, path or url) ends
// with a known video container extension.
func HasVideoExtension(name string) bool {
	if name == "" {
		return false
	}
	if i := strings.IndexAny(name, "?#"); i != -1 && strings.Contains(name, "://") {
		name = name[:i]
	}
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
