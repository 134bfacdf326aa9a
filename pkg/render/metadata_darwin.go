// File: pkg/render/metadata_darwin.go

package render

import (
	"os"
	"strconv"
	"syscall"
	"time"
)

func createTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}

func owner(info os.FileInfo) string {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return ownerName(strconv.FormatUint(uint64(st.Uid), 10))
	}
	return ""
}
