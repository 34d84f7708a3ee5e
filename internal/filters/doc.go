// Package filters implements the PDF stream filters the generator writes.
//
// Content streams, fonts and images are compressed with FlateDecode:
//
//	data, err := filters.FlateEncode(content)
//
// Image samples can be run through the PNG Up predictor first, in which
// case the stream's DecodeParms must name Predictor 12 with the image's
// Columns and Colors:
//
//	rows, err := filters.PredictPNG(samples, width, 3)
//	data, err := filters.FlateEncode(rows)
//
// FlateDecode reverses both steps and is used to read streams back.
package filters
