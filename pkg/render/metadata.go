// File: pkg/render/metadata.go
package render

import (
	"fmt"
	"os"
	"os/user"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Metadata keys, in the order they are rendered.
const (
	KeySize        = "File Size"
	KeyModified    = "Last Modified"
	KeyCreated     = "Creation Time"
	KeyPermissions = "Permissions"
	KeyOwner       = "Owner"
)

var metadataDescriptions = []struct{ key, text string }{
	{KeySize, "The size of the file in bytes."},
	{KeyModified, "The last modification timestamp of the file."},
	{KeyCreated, "The creation timestamp of the file."},
	{KeyPermissions, "The file permissions."},
	{KeyOwner, "The owner of the file."},
}

// Metadata describes a file at the moment it was read.
type Metadata struct {
	Size        int64
	ModTime     time.Time
	CreateTime  time.Time
	Permissions string
	// Owner is whatever the platform reports: a user name when the id
	// resolves, otherwise the raw id. Empty where ownership is unknown.
	Owner string
}

// MetadataFields toggles each metadata key.
type MetadataFields struct {
	Size        bool
	Modified    bool
	Created     bool
	Permissions bool
	Owner       bool
}

// AllMetadata enables every key.
func AllMetadata() MetadataFields {
	return MetadataFields{Size: true, Modified: true, Created: true, Permissions: true, Owner: true}
}

// NoMetadata disables every key.
func NoMetadata() MetadataFields {
	return MetadataFields{}
}

// Pair is a rendered metadata entry.
type Pair struct {
	Key   string
	Value string
}

// Pairs returns the enabled entries in rendering order.
func (m Metadata) Pairs(fields MetadataFields) []Pair {
	var pairs []Pair
	if fields.Size {
		pairs = append(pairs, Pair{KeySize, fmt.Sprintf("%d bytes", m.Size)})
	}
	if fields.Modified {
		pairs = append(pairs, Pair{KeyModified, m.ModTime.Format(time.ANSIC)})
	}
	if fields.Created {
		pairs = append(pairs, Pair{KeyCreated, m.CreateTime.Format(time.ANSIC)})
	}
	if fields.Permissions {
		pairs = append(pairs, Pair{KeyPermissions, m.Permissions})
	}
	if fields.Owner {
		pairs = append(pairs, Pair{KeyOwner, m.Owner})
	}
	return pairs
}

// Stat reads the metadata of the file at path.
func Stat(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return FromFileInfo(info), nil
}

// FromFileInfo builds Metadata from info.
func FromFileInfo(info os.FileInfo) Metadata {
	return Metadata{
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		CreateTime:  createTime(info),
		Permissions: info.Mode().String(),
		Owner:       owner(info),
	}
}

var ownerNames, _ = lru.New[string, string](256)

// ownerName resolves a numeric uid to a user name, caching the answer.
// Unresolvable ids are returned unchanged.
func ownerName(uid string) string {
	if name, ok := ownerNames.Get(uid); ok {
		return name
	}
	name := uid
	if u, err := user.LookupId(uid); err == nil && u.Username != "" {
		name = u.Username
	}
	ownerNames.Add(uid, name)
	return name
}
