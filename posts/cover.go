package posts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	assetsURLPrefix = "/public/static/"
	blurWidth       = 8
)

// processCover derives responsive image metadata for a cover image and,
// when assetsDir is set, copies the file there under a content-hashed name.
func processCover(path, assetsDir string) (*CoverImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read cover image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode cover image %s: %w", filepath.Base(path), err)
	}

	blur, err := blurDataURL(img)
	if err != nil {
		return nil, err
	}

	name := hashedName(filepath.Base(path), data)
	if assetsDir != "" {
		if err := os.MkdirAll(assetsDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create assets dir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(assetsDir, name), data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to copy cover image: %w", err)
		}
	}

	b := img.Bounds()
	return &CoverImage{
		Src:         assetsURLPrefix + name,
		Width:       b.Dx(),
		Height:      b.Dy(),
		BlurDataURL: blur,
	}, nil
}

func hashedName(base string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-%08x%s", stem, uint32(xxhash.Sum64(data)), ext)
}

// blurDataURL scales img down to a tiny PNG suitable as a blurred placeholder.
func blurDataURL(img image.Image) (string, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("cover image has no pixels")
	}

	h := b.Dy() * blurWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, blurWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return "", fmt.Errorf("failed to encode blur placeholder: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
