// Package contentstream reads PDF page content streams back into
// operations and checks their marked content.
//
// Tagged PDF requires every mark on a page to belong either to a structure
// element, through a BDC sequence with an MCID, or to an Artifact sequence:
//
//	marks, err := contentstream.Check(pageContent)
//	if err != nil {
//	    return err // unbalanced BDC/EMC or duplicate MCID
//	}
//	if len(marks.Unmarked) > 0 {
//	    // content outside any sequence
//	}
//	ids := marks.MCIDs()
//
// Painting operators are the text showing operators, path painting
// operators, Do, sh and inline images. Other operators are ignored.
package contentstream
