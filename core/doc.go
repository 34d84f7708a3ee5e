// Package core provides the PDF object model and a file writer.
//
// PDF defines eight basic object types, all implemented as types satisfying
// the Object interface, whose String method returns PDF syntax:
//
//   - [Null], [Bool], [Int], [Real]
//   - [String] and [HexString] for byte strings, [TextString] for text
//   - [Name], [Array] and [Dict]
//
// [Stream] holds a dictionary and binary data and [IndirectRef] refers to
// an indirect object.
//
// # Writing
//
// A [Writer] numbers objects in the order they are added and emits a
// complete file: header, objects, cross-reference table and trailer.
// Objects that refer to each other are reserved first and set later:
//
//	w := core.NewWriter()
//	pages := w.Reserve()
//	page := w.Add(core.Dict{"Type": core.Name("Page"), "Parent": pages})
//	w.Set(pages, core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{page}, "Count": core.Int(1)})
//	w.SetRoot(w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": pages}))
//	data, err := w.Bytes()
//
// Dictionary keys are written in sorted order and the file identifier is a
// hash of the objects, so identical input yields identical bytes.
package core
