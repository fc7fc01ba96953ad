package utils

import (
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CreateThumb writes a resized copy of <dir>/<id><ext> into <dir>/thumb.
// Width is fixed, height keeps the aspect ratio.
func CreateThumb(id, dir, ext string, width int) string {
	src := filepath.Join(dir, id+ext)
	img, err := imaging.Open(src)
	if err != nil {
		log.Println("CreateThumb open error:", err)
		return ""
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	dst := filepath.Join(dir, "thumb", id+ext)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		log.Println("CreateThumb mkdir error:", err)
		return ""
	}
	if err := imaging.Save(thumb, dst); err != nil {
		log.Println("CreateThumb save error:", err)
		return ""
	}
	return dst
}
