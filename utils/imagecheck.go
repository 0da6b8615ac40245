// utils/imagecheck.go
package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxImageSize is 5 MiB.
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrImageTooLarge     = errors.New("image exceeds the 5MB size limit")
	ErrUnsupportedFormat = errors.New("unsupported image format (allowed: jpg, jpeg, png, gif, webp)")
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// imageMagic holds known leading signatures per extension. Extensions not in
// the table (webp) skip the sniff.
var imageMagic = map[string][]byte{
	".jpg":  {0xFF, 0xD8},
	".jpeg": {0xFF, 0xD8},
	".png":  {0x89, 0x50, 0x4E, 0x47},
	".gif":  {0x47, 0x49, 0x46, 0x38},
}

// CheckedImage is an upload that passed validation, ready to hand to a store.
type CheckedImage struct {
	Data         []byte
	Ext          string
	ContentType  string
	OriginalName string
}

// CheckImage enforces the size limit and extension whitelist, then sniffs the
// leading bytes against the known signatures. A signature mismatch only logs
// a warning — content sniffing has false positives, so it never rejects.
func CheckImage(fh *multipart.FileHeader) (*CheckedImage, error) {
	if fh.Size > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExts[ext] {
		return nil, ErrUnsupportedFormat
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if sig, ok := imageMagic[ext]; ok && !bytes.HasPrefix(data, sig) {
		log.Printf("⚠️ [IMAGE] %s claims %s but leading bytes do not match — accepting anyway", fh.Filename, ext)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &CheckedImage{
		Data:         data,
		Ext:          ext,
		ContentType:  contentType,
		OriginalName: fh.Filename,
	}, nil
}

// StoredName builds the filename used inside the record's storage namespace:
// "{timestamp}_{slugged original base}_{random suffix}{ext}". Uploaded names
// are frequently CJK, so the base is slugged into safe ASCII.
func (ci *CheckedImage) StoredName() string {
	base := slug.Make(strings.TrimSuffix(filepath.Base(ci.OriginalName), filepath.Ext(ci.OriginalName)))
	if base == "" {
		base = "image"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d_%s_%s%s", time.Now().Unix(), base, suffix, ci.Ext)
}
