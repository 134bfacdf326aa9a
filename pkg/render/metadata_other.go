// File: pkg/render/metadata_other.go

//go:build !linux && !darwin

package render

import (
	"os"
	"time"
)

func createTime(info os.FileInfo) time.Time {
	return info.ModTime()
}

func owner(os.FileInfo) string {
	return ""
}
