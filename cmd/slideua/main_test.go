package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/slideua/profile"
	"github.com/tsawler/slideua/report"
)

const (
	relNS   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	slideNS = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

// writeDeck writes a one-slide presentation with a title and a picture
// without alternative text.
func writeDeck(t *testing.T, dir string) string {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 4, 4))))

	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/><Default Extension="png" ContentType="image/png"/>` +
			`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/></Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="` + relNS + `/officeDocument" Target="ppt/presentation.xml"/>` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/></Relationships>`,
		"docProps/core.xml": `<?xml version="1.0" encoding="UTF-8"?><cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
			`<dc:title>Umsatz 2024</dc:title><dc:language>de-DE</dc:language></cp:coreProperties>`,
		"ppt/_rels/presentation.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="` + relNS + `/slide" Target="slides/slide1.xml"/></Relationships>`,
		"ppt/presentation.xml": `<?xml version="1.0" encoding="UTF-8"?><p:presentation ` + slideNS + `>` +
			`<p:sldIdLst><p:sldId id="256" r:id="rId1"/></p:sldIdLst><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`,
		"ppt/slides/slide1.xml": `<?xml version="1.0" encoding="UTF-8"?><p:sld ` + slideNS + `><p:cSld><p:spTree>` +
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
			`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
			`<p:spPr><a:xfrm><a:off x="508000" y="254000"/><a:ext cx="8128000" cy="762000"/></a:xfrm></p:spPr>` +
			`<p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="de-DE"/><a:t>Umsatz</a:t></a:r></a:p></p:txBody></p:sp>` +
			`<p:pic><p:nvPicPr><p:cNvPr id="3" name="Picture 2"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
			`<p:blipFill><a:blip r:embed="rId2"/></p:blipFill>` +
			`<p:spPr><a:xfrm><a:off x="1270000" y="1524000"/><a:ext cx="5080000" cy="3810000"/></a:xfrm></p:spPr></p:pic>` +
			`</p:spTree></p:cSld></p:sld>`,
		"ppt/slides/_rels/slide1.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId2" Type="` + relNS + `/image" Target="../media/image1.png"/></Relationships>`,
		"ppt/media/image1.png": img.String(),
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "umsatz.pptx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// isolate clears SLIDEUA_* settings that would leak in from the
// environment.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SLIDEUA_LANGUAGE", "SLIDEUA_PROFILE", "SLIDEUA_LOG_LEVEL", "SLIDEUA_LOG_FORMAT",
		"SLIDEUA_ENHANCE", "SLIDEUA_ENHANCE_PROVIDER", "SLIDEUA_LLM_BASE_URL",
		"SLIDEUA_REPORT_LANGUAGE", "SLIDEUA_REPORT_FORMATS", "SLIDEUA_OCR_LANGUAGES",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SLIDEUA_LOG_LEVEL", "error")
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--no-color"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestConvertCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeDeck(t, dir)
	out := filepath.Join(dir, "out.pdf")
	jsonPath := filepath.Join(dir, "r.json")
	htmlPath := filepath.Join(dir, "r.html")
	xlsxPath := filepath.Join(dir, "r.xlsx")

	code, stdout, stderr := execute("convert", in, "-o", out, "--report", jsonPath, "--html", htmlPath, "--xlsx", xlsxPath, "--text")
	require.Equal(t, 0, code, stderr)

	pdf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var r report.AccessibilityReport
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, 1, r.Summary.Errors)
	assert.Equal(t, "Umsatz 2024", r.DocumentTitle)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")

	xlsx, err := os.ReadFile(xlsxPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx, []byte("PK")))

	assert.Contains(t, stdout, "✓ "+out)
	assert.Contains(t, stdout, "✗ Score")
	assert.Contains(t, stdout, "Folie 1")

	leftovers, err := filepath.Glob(filepath.Join(dir, ".slideua-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestConvertDefaultReports(t *testing.T) {
	isolate(t)
	t.Setenv("SLIDEUA_REPORT_FORMATS", "json,text")
	dir := t.TempDir()
	in := writeDeck(t, dir)

	code, _, stderr := execute("convert", in)
	require.Equal(t, 0, code, stderr)

	for _, name := range []string{"umsatz.pdf", "umsatz.report.json", "umsatz.report.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, "umsatz.report.html"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConvertJSONOutput(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeDeck(t, dir)
	out := filepath.Join(dir, "out.pdf")

	code, stdout, stderr := execute("--json", "convert", in, "-o", out)
	require.Equal(t, 0, code, stderr)

	var got convertOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, out, got.Output)
	assert.NotEmpty(t, got.JobID)
	assert.Greater(t, got.Bytes, 0)
	assert.Equal(t, got.Report.Score, got.Score)
	assert.Equal(t, 1, got.Summary.Errors)
}

func TestValidateCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeDeck(t, dir)

	code, stdout, stderr := execute("--json", "validate", in)
	require.Equal(t, 0, code, stderr)

	var r report.AccessibilityReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &r))
	var types []string
	for _, is := range r.Issues {
		types = append(types, string(is.Type))
	}
	assert.Contains(t, types, "missing_alt_text")
	assert.Equal(t, 1, r.Summary.Errors)

	_, err := os.Stat(filepath.Join(dir, "umsatz.pdf"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "validate must not write a PDF")

	code, stdout, _ = execute("validate", in, "--text")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Umsatz 2024")
}

func TestValidateFailOnErrors(t *testing.T) {
	isolate(t)
	in := writeDeck(t, t.TempDir())

	code, _, _ := execute("validate", in, "--fail-on-errors")
	assert.Equal(t, 2, code)
}

func TestMalformedInput(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.pptx")
	require.NoError(t, os.WriteFile(in, []byte("hello world"), 0o644))

	code, _, stderr := execute("validate", in)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "keine PowerPoint-Präsentation")

	t.Setenv("SLIDEUA_REPORT_LANGUAGE", "en")
	code, _, stderr = execute("validate", in)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not a PowerPoint presentation")

	code, _, stderr = execute("validate", filepath.Join(dir, "missing.pptx"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "reading presentation")
}

func TestProfilesCommand(t *testing.T) {
	isolate(t)

	code, stdout, stderr := execute("profiles")
	require.Equal(t, 0, code, stderr)
	for _, name := range profile.Names() {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "* default")

	code, stdout, _ = execute("profiles", "strict")
	require.Equal(t, 0, code)
	p, err := profile.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, "strict", p.Name)

	code, _, stderr = execute("profiles", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown profile")
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	code, stdout, _ := execute("version")
	assert.Equal(t, 0, code)
	assert.Equal(t, fmt.Sprintf("slideua %s\n", version), stdout)
}

func TestInvalidGlobalFlags(t *testing.T) {
	isolate(t)
	code, _, stderr := execute("--log-level", "loud", "version")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid log level")

	code, _, stderr = execute("--config", filepath.Join(t.TempDir(), "none.yaml"), "version")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "load config")
}

func TestLoadProfileFile(t *testing.T) {
	p := profile.Strict()
	p.Name = "hausstil"
	data, err := p.Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "hausstil.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "hausstil", got.Name)

	got, err = loadProfile("fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", got.Name)

	_, err = loadProfile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, writeAtomic(path, writeBytes([]byte("eins"))))
	require.NoError(t, writeAtomic(path, writeBytes([]byte("zwei"))))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zwei", string(data))

	failed := writeAtomic(filepath.Join(dir, "broken.txt"), func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("disk full")
	})
	require.Error(t, failed)
	assert.Contains(t, failed.Error(), "disk full")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"out.txt"}, names, strings.Join(names, ","))
}
