// File: pkg/render/metadata_linux.go

package render

import (
	"os"
	"strconv"
	"syscall"
	"time"
)

// createTime reports the inode change time; Linux does not expose birth
// time through stat(2).
func createTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}

func owner(info os.FileInfo) string {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return ownerName(strconv.FormatUint(uint64(st.Uid), 10))
	}
	return ""
}
