// Package ocr recognizes text in slide pictures with the Tesseract engine
// via gosseract.
//
// OCR support is compiled in only with the "ocr" build tag, because it
// needs the Tesseract and Leptonica libraries at build and run time:
//
//	go build -tags ocr ./...
//
// Without the tag every constructor returns [ErrOCRNotEnabled] and callers
// carry on without OCR. On macOS install Tesseract with
//
//	brew install tesseract tesseract-lang
//
// and on Debian or Ubuntu with
//
//	apt-get install tesseract-ocr tesseract-ocr-deu libtesseract-dev
package ocr
