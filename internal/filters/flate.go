package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params holds the DecodeParms entries of a stream, for example Predictor,
// Columns and Colors.
type Params map[string]interface{}

// Predictor values written into DecodeParms.
const (
	PredictorNone = 1
	// PredictorPNGUp is the PNG "optimum" predictor family value; every row
	// carries its own tag byte.
	PredictorPNGUp = 12
)

// FlateEncode compresses data with zlib at the best compression level.
func FlateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flushing zlib stream: %w", err)
	}
	return buf.Bytes(), nil
}

// FlateDecode decompresses zlib data and undoes a PNG predictor when params
// name one.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening zlib stream: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	out := buf.Bytes()

	predictor := intParam(params, "Predictor", PredictorNone)
	switch {
	case predictor == PredictorNone:
		return out, nil
	case predictor >= 10 && predictor <= 15:
		return unpredictPNG(out, intParam(params, "Columns", 1), intParam(params, "Colors", 1))
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

// PredictPNG prefixes every row of 8-bit samples with the PNG Up filter and
// replaces each sample by its difference to the sample above. Image rows
// that repeat compress far better afterwards.
func PredictPNG(data []byte, columns, colors int) ([]byte, error) {
	rowSize := columns * colors
	if rowSize <= 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}
	rows := len(data) / rowSize
	out := make([]byte, 0, rows*(rowSize+1))
	for r := 0; r < rows; r++ {
		row := data[r*rowSize : (r+1)*rowSize]
		out = append(out, 2)
		for i, b := range row {
			var up byte
			if r > 0 {
				up = data[(r-1)*rowSize+i]
			}
			out = append(out, b-up)
		}
	}
	return out, nil
}

// unpredictPNG reverses per-row PNG filters (None, Sub, Up, Average, Paeth)
// on 8-bit samples.
func unpredictPNG(data []byte, columns, colors int) ([]byte, error) {
	rowLen := columns * colors
	stride := rowLen + 1
	if rowLen <= 0 || len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}
	rows := len(data) / stride
	out := make([]byte, rows*rowLen)

	for r := 0; r < rows; r++ {
		tag := data[r*stride]
		in := data[r*stride+1 : (r+1)*stride]
		cur := out[r*rowLen : (r+1)*rowLen]
		var prev []byte
		if r > 0 {
			prev = out[(r-1)*rowLen : r*rowLen]
		}
		for i := range in {
			var left, up, upLeft byte
			if i >= colors {
				left = cur[i-colors]
			}
			if prev != nil {
				up = prev[i]
				if i >= colors {
					upLeft = prev[i-colors]
				}
			}
			var pred byte
			switch tag {
			case 0:
			case 1:
				pred = left
			case 2:
				pred = up
			case 3:
				pred = byte((int(left) + int(up)) / 2)
			case 4:
				pred = paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter %d", r, tag)
			}
			cur[i] = in[i] + pred
		}
	}
	return out, nil
}

// paeth picks the neighbour closest to left + up - upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func intParam(params Params, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
