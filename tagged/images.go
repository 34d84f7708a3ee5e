package tagged

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/slideua/core"
	"github.com/tsawler/slideua/internal/filters"
	"github.com/tsawler/slideua/model"
)

// imageObject is a picture ready to be written as an image XObject, with
// an optional soft mask for transparency.
type imageObject struct {
	image  *core.Stream
	smask  *core.Stream
	width  int
	height int
}

// prepareImage turns media bytes into an image XObject. Baseline JPEG
// within the size limit is embedded unchanged; every other supported
// format is decoded, scaled down to maxDim when larger, and stored as
// Flate-compressed RGB.
func prepareImage(m *model.Media, maxDim int) (*imageObject, error) {
	if m == nil || len(m.Data) == 0 {
		return nil, fmt.Errorf("no image data")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(m.Data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image %s: %w", m.Part, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image %s has no pixels", m.Part)
	}

	if format == "jpeg" && fits(cfg.Width, cfg.Height, maxDim) {
		var cs core.Name
		switch cfg.ColorModel {
		case color.YCbCrModel, color.RGBAModel:
			cs = "DeviceRGB"
		case color.GrayModel:
			cs = "DeviceGray"
		}
		if cs != "" {
			return &imageObject{
				image: core.NewStream(core.Dict{
					"Type":             core.Name("XObject"),
					"Subtype":          core.Name("Image"),
					"Width":            core.Int(cfg.Width),
					"Height":           core.Int(cfg.Height),
					"ColorSpace":       cs,
					"BitsPerComponent": core.Int(8),
					"Filter":           core.Name("DCTDecode"),
				}, m.Data),
				width:  cfg.Width,
				height: cfg.Height,
			}, nil
		}
	}

	src, _, err := image.Decode(bytes.NewReader(m.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", m.Part, err)
	}
	return encodeImage(src, maxDim)
}

func fits(w, h, maxDim int) bool {
	return maxDim <= 0 || w <= maxDim && h <= maxDim
}

func scaledSize(w, h, maxDim int) (int, int) {
	if fits(w, h, maxDim) {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}

func encodeImage(src image.Image, maxDim int) (*imageObject, error) {
	b := src.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), maxDim)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	rgbData := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	opaque := true
	for i := 0; i < len(dst.Pix); i += 4 {
		rgbData = append(rgbData, dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2])
		alpha = append(alpha, dst.Pix[i+3])
		if dst.Pix[i+3] != 0xff {
			opaque = false
		}
	}

	img, err := flateImage(rgbData, w, h, 3, "DeviceRGB")
	if err != nil {
		return nil, err
	}
	obj := &imageObject{image: img, width: w, height: h}
	if !opaque {
		if obj.smask, err = flateImage(alpha, w, h, 1, "DeviceGray"); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func flateImage(samples []byte, w, h, colors int, cs core.Name) (*core.Stream, error) {
	predicted, err := filters.PredictPNG(samples, w, colors)
	if err != nil {
		return nil, err
	}
	data, err := filters.FlateEncode(predicted)
	if err != nil {
		return nil, err
	}
	return core.NewStream(core.Dict{
		"Type":             core.Name("XObject"),
		"Subtype":          core.Name("Image"),
		"Width":            core.Int(w),
		"Height":           core.Int(h),
		"ColorSpace":       cs,
		"BitsPerComponent": core.Int(8),
		"Filter":           core.Name("FlateDecode"),
		"DecodeParms": core.Dict{
			"Predictor":        core.Int(filters.PredictorPNGUp),
			"Colors":           core.Int(colors),
			"Columns":          core.Int(w),
			"BitsPerComponent": core.Int(8),
		},
	}, data), nil
}
