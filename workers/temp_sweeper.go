// workers/temp_sweeper.go
package workers

import (
	"log"
	"time"

	"legend-record-system/utils"
)

// TempSweeper reclaims image blobs stranded in the temp namespace by
// submissions that were aborted between staging and commit.
type TempSweeper struct {
	Store  utils.ImageStore
	MaxAge time.Duration
}

func NewTempSweeper(store utils.ImageStore, maxAge time.Duration) *TempSweeper {
	return &TempSweeper{Store: store, MaxAge: maxAge}
}

// Sweep deletes every temp blob older than MaxAge. Young blobs may belong to
// an in-flight submission and are left alone.
func (w *TempSweeper) Sweep() {
	objs, err := w.Store.List(utils.TempPrefix)
	if err != nil {
		log.Printf("❌ [SWEEP] failed to list temp namespace: %v", err)
		return
	}

	cutoff := time.Now().Add(-w.MaxAge)
	removed := 0
	for _, obj := range objs {
		if obj.ModTime.After(cutoff) {
			continue
		}
		if err := w.Store.Delete(obj.Key); err != nil {
			log.Printf("⚠️ [SWEEP] failed to delete %s: %v", obj.Key, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("🧹 [SWEEP] removed %d orphaned temp blob(s)", removed)
	}
}
