// Package tagged renders a presentation model as a tagged PDF aimed at
// PDF/UA-1.
//
// Every slide becomes one page and one Sect in the structure tree. Elements
// are visited in the slide's reading order and each contributes one
// structure node mirrored by marked content on the page:
//
//   - titles and subtitles become H1 and H2
//   - body text and text boxes become P, with Link children for hyperlinks
//   - lists become L with LI, Lbl and LBody, nested by item level
//   - tables become Table with TR and TH or TD cells
//   - pictures, charts and SmartArt become Figure with the alt text as /Alt
//
// Decorative elements and page furniture are drawn as artifacts and never
// appear in the tree. The element-to-role mapping comes from the
// conversion profile.
//
// Basic usage:
//
//	data, tree, err := tagged.Generate(pres, profile.Default())
//	if errors.Is(err, tagged.ErrRender) {
//		// fonts could not be embedded
//	}
//
// Text is drawn with embedded TrueType fonts in WinAnsiEncoding. [Sanitize]
// substitutes symbols the fonts cannot draw and drops anything else
// outside the repertoire, so unusual characters never fail a render.
//
// The catalog always carries /Lang, /MarkInfo and /ViewerPreferences with
// DisplayDocTitle, and XMP metadata with the PDF/UA identification.
// Bookmarks and link annotations follow the profile's export options.
package tagged
