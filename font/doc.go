// Package font prepares TrueType fonts for embedding in generated PDFs.
//
// Text is drawn with simple fonts in WinAnsiEncoding. A [Font] carries the
// font program, its metrics and the advance of every character code, all
// in 1/1000 em as PDF expects:
//
//	f, err := font.Regular()
//	codes := font.Encode("Grüße")
//	width := f.Measure(codes, 12) // points
//
// The Go fonts from golang.org/x/image are bundled; [Parse] accepts any
// other TrueType program.
//
// # ToUnicode
//
// [Font.ToUnicode] builds a [CMap] from character codes back to Unicode.
// Written as the font's /ToUnicode stream it keeps drawn text extractable
// and readable by assistive technology. [ParseCMap] reads such programs.
package font
