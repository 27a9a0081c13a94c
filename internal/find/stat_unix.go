//go:build !windows

package trawl

import (
	"os"
	"syscall"
)

// sysMeta extracts the inode number and hard-link count from the
// platform stat data behind info. ok is false when the data is not a
// syscall.Stat_t.
func sysMeta(info os.FileInfo) (Meta, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Meta{}, false
	}
	// Nlink is a narrower integer on some platforms.
	return Meta{Inode: uint64(st.Ino), Links: uint64(st.Nlink)}, true
}
