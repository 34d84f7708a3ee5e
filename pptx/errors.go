package pptx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/slideua/format"
)

// ErrMalformedPackage is matched by every [MalformedPackageError].
var ErrMalformedPackage = errors.New("malformed presentation package")

// Reason classifies why a package could not be parsed.
type Reason string

const (
	ReasonNotZip        Reason = "not_zip"
	ReasonLegacyBinary  Reason = "legacy_binary"
	ReasonEncrypted     Reason = "encrypted"
	ReasonWrongDocument Reason = "wrong_document"
	ReasonMissingPart   Reason = "missing_part"
	ReasonInvalidPart   Reason = "invalid_part"
	ReasonNoSlides      Reason = "no_slides"
)

// MalformedPackageError reports input that is not a usable presentation
// package. Part names the offending part when one is known.
type MalformedPackageError struct {
	Reason   Reason
	Part     string
	Detected format.Format
	Err      error
}

func (e *MalformedPackageError) Error() string {
	var b strings.Builder
	b.WriteString("malformed presentation package: ")
	b.WriteString(string(e.Reason))
	if e.Part != "" {
		b.WriteString(" (")
		b.WriteString(e.Part)
		b.WriteString(")")
	}
	if e.Reason == ReasonWrongDocument && e.Detected != format.Unknown {
		b.WriteString(": detected ")
		b.WriteString(e.Detected.String())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MalformedPackageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedPackage) true for every variant.
func (e *MalformedPackageError) Is(target error) bool {
	return target == ErrMalformedPackage
}

// Message returns an actionable explanation for end users in German or
// English, naming the likely cause.
func (e *MalformedPackageError) Message(lang string) string {
	de := strings.HasPrefix(strings.ToLower(lang), "de")
	pick := func(deText, enText string) string {
		if de {
			return deText
		}
		return enText
	}

	switch e.Reason {
	case ReasonNotZip:
		return pick(
			"Die Datei ist keine PowerPoint-Präsentation (.pptx). Bitte speichern Sie die Präsentation als .pptx und laden Sie sie erneut hoch.",
			"The file is not a PowerPoint presentation (.pptx). Please save the presentation as .pptx and upload it again.")
	case ReasonLegacyBinary:
		return pick(
			"Die Datei ist im alten PowerPoint-Format (.ppt) gespeichert. Bitte öffnen Sie sie in PowerPoint und speichern Sie sie als .pptx.",
			"The file uses the legacy PowerPoint format (.ppt). Please open it in PowerPoint and save it as .pptx.")
	case ReasonEncrypted:
		return pick(
			"Die Präsentation ist kennwortgeschützt. Bitte entfernen Sie den Kennwortschutz und laden Sie die Datei erneut hoch.",
			"The presentation is password protected. Please remove the password and upload the file again.")
	case ReasonWrongDocument:
		kind := e.Detected.String()
		return pick(
			fmt.Sprintf("Die Datei ist ein %s-Dokument, keine Präsentation. Bitte laden Sie eine .pptx-Datei hoch.", kind),
			fmt.Sprintf("The file is a %s document, not a presentation. Please upload a .pptx file.", kind))
	case ReasonNoSlides:
		return pick(
			"Die Präsentation enthält keine Folien.",
			"The presentation contains no slides.")
	case ReasonMissingPart:
		return pick(
			fmt.Sprintf("Die Präsentation ist unvollständig: der Bestandteil %q fehlt. Bitte speichern Sie die Datei in PowerPoint erneut.", e.Part),
			fmt.Sprintf("The presentation is incomplete: part %q is missing. Please save the file again in PowerPoint.", e.Part))
	default:
		return pick(
			fmt.Sprintf("Die Präsentation ist beschädigt: der Bestandteil %q kann nicht gelesen werden. Bitte speichern Sie die Datei in PowerPoint erneut.", e.Part),
			fmt.Sprintf("The presentation is damaged: part %q cannot be read. Please save the file again in PowerPoint.", e.Part))
	}
}

// reasonForFormat maps a sniffed non-presentation format to a reason.
func reasonForFormat(f format.Format) Reason {
	switch f {
	case format.LegacyPPT:
		return ReasonLegacyBinary
	case format.EncryptedOOXML:
		return ReasonEncrypted
	case format.DOCX, format.XLSX, format.ODP, format.PDF, format.LegacyDOC, format.LegacyXLS:
		return ReasonWrongDocument
	default:
		return ReasonNotZip
	}
}
