package imageclassify

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/trantaidat7388-dot/word2latex/internal/converterrors"
)

// Decode decodes an embedded image's raw bytes for the pixel scorer.
// The blank-imported codecs cover every raster format Word commonly
// embeds: PNG, JPEG, GIF, BMP, and TIFF. WMF/EMF vector metafiles are
// not decoded and return an error; the walker rejects any image that
// fails to decode.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, converterrors.Wrap(converterrors.ImageDegraded, "imageclassify.Decode", err)
	}
	return img, nil
}
