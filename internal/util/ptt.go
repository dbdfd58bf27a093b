package util

import (
	"github.com/MunifTanjim/go-ptt"
)

// ParseTorrentTitle never fails; unparseable names yield a zero-valued result
// with Title set to the input.
func ParseTorrentTitle(name string) *ptt.Result {
	r := ptt.Parse(name)
	if r == nil {
		return &ptt.Result{Title: name}
	}
	if r.Title == "" {
		r.Title = name
	}
	return r
}
