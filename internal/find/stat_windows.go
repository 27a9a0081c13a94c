//go:build windows

package trawl

import "os"

// sysMeta has no Stat_t to draw from on Windows; inode and link-count
// criteria report unavailable and never match.
func sysMeta(os.FileInfo) (Meta, bool) {
	return Meta{}, false
}
