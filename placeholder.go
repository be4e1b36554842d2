package pubfolio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	placeholderWidth   = 10
	placeholderQuality = 40
	cloudinaryHost     = "res.cloudinary.com"
	cloudinaryBlur     = "w_10,q_auto:low,e_blur:1000,f_auto"
)

// Flat grey squares used when no better placeholder can be made.
const (
	greyPlaceholder  = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMTAwIiBoZWlnaHQ9IjEwMCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iMTAwIiBoZWlnaHQ9IjEwMCIgZmlsbD0iI2VlZSIvPjwvc3ZnPg=="
	lightPlaceholder = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMTAiIGhlaWdodD0iMTAiIHhtbG5zPSJodHRwOi8vd3d3LnczLm9yZy8yMDAwL3N2ZyI+PHJlY3Qgd2lkdGg9IjEwIiBoZWlnaHQ9IjEwIiBmaWxsPSIjZjBmMGYwIi8+PC9zdmc+"
)

// BlurPlaceholder returns a tiny blurred stand-in for the image at rawURL.
// Site-local images under staticDir are scaled down and inlined as a JPEG
// data URL. Cloudinary URLs get a blur transformation. Anything else gets a
// flat grey SVG.
func BlurPlaceholder(staticDir, rawURL string) string {
	if strings.Contains(rawURL, cloudinaryHost) {
		return cloudinaryPlaceholder(rawURL)
	}
	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		if p, err := localPlaceholder(staticDir, rawURL); err == nil {
			return p
		}
	}
	return greyPlaceholder
}

func cloudinaryPlaceholder(rawURL string) string {
	i := strings.Index(rawURL, "/upload/")
	if i < 0 {
		return lightPlaceholder
	}
	i += len("/upload/")
	return rawURL[:i] + cloudinaryBlur + "/" + rawURL[i:]
}

// localPlaceholder resolves urlPath inside staticDir. Paths under /public/
// map to staticDir itself.
func localPlaceholder(staticDir, urlPath string) (string, error) {
	rel := strings.TrimPrefix(urlPath, "/public")
	clean := filepath.Clean("/" + strings.TrimPrefix(rel, "/"))
	f, err := os.Open(filepath.Join(staticDir, clean))
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	b, err := shrink(img)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(b), nil
}

// shrink scales img to placeholderWidth pixels wide and encodes it as JPEG.
func shrink(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}
	newH := h * placeholderWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, placeholderWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: placeholderQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
