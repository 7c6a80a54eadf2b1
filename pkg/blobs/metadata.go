package blobs

import (
	"strings"
	"time"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

// OriginalFileNameKey is the metadata entry holding the file name an
// object was uploaded with. Stores may change the case of metadata keys, so
// it is matched case-insensitively.
const OriginalFileNameKey = "original-filename"

// Metadata describes a stored blob.
type Metadata struct {
	ID               blobid.ID
	Size             int64
	ContentType      string
	LastModified     time.Time
	ETag             string
	OriginalFileName string

	// Attributes holds caller metadata without the original file name. It
	// is nil when nothing remains.
	Attributes map[string]string
}

func newMetadata(id blobid.ID, info ObjectInfo) *Metadata {
	md := &Metadata{
		ID:           id,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
		ETag:         info.ETag,
	}

	for k, v := range info.Metadata {
		if strings.EqualFold(k, OriginalFileNameKey) {
			md.OriginalFileName = v
			continue
		}
		if md.Attributes == nil {
			md.Attributes = make(map[string]string, len(info.Metadata))
		}
		md.Attributes[k] = v
	}

	return md
}

// uploadMetadata copies attrs and records fileName under
// OriginalFileNameKey, replacing any caller entry with that key.
func uploadMetadata(fileName string, attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		if strings.EqualFold(k, OriginalFileNameKey) {
			continue
		}
		out[k] = v
	}
	out[OriginalFileNameKey] = fileName
	return out
}
