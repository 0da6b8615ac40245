package utils

import (
	"io"
	"time"
)

// TempPrefix is where image blobs are staged before their record row exists.
// Orphans under it (from aborted submissions) are swept by the housekeeping job.
const TempPrefix = "records/temp/"

// StoredObject describes one blob in an ImageStore.
type StoredObject struct {
	Key     string
	ModTime time.Time
}

// ImageStore is where record images live — the local uploads dir in dev,
// R2 in production. Keys are slash-separated, e.g.
// "records/{player_id}/{record_id}/{filename}".
type ImageStore interface {
	// Save writes the blob and returns its public URL.
	Save(key string, r io.Reader, contentType string) (string, error)
	Delete(key string) error
	// DeletePrefix removes every blob under prefix, plus any now-empty
	// containing location where the backend has such a notion.
	DeletePrefix(prefix string) error
	List(prefix string) ([]StoredObject, error)
	// KeyFromURL maps a URL previously returned by Save back to its key.
	KeyFromURL(url string) string
}
