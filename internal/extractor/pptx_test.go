package extractor

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presentationXML = `<?xml version="1.0" encoding="UTF-8"?>
<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
  xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
  xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:sldIdLst>
    <p:sldId id="256" r:id="rId3"/>
    <p:sldId id="257" r:id="rId2"/>
  </p:sldIdLst>
</p:presentation>`

const presentationRelsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>
</Relationships>`

func slideXML(bodies ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
  xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`
	for _, b := range bodies {
		out += `<p:sp><p:txBody><a:bodyPr/>` + b + `</p:txBody></p:sp>`
	}
	return out + `</p:spTree></p:cSld></p:sld>`
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractPPTX_PresentationOrder(t *testing.T) {
	path := writeZip(t, map[string]string{
		presentationPart: presentationXML,
		presentationRels: presentationRelsXML,
		// slide2.xml is listed first in the slide list
		"ppt/slides/slide2.xml": slideXML(`<a:p><a:r><a:t>Acme</a:t></a:r></a:p>`),
		"ppt/slides/slide1.xml": slideXML(
			`<a:p><a:r><a:t>Market </a:t></a:r><a:r><a:t>is big</a:t></a:r></a:p><a:p><a:r><a:t>TAM $10B</a:t></a:r></a:p>`,
			`<a:p><a:r><a:t>   </a:t></a:r></a:p>`,
			`<a:p><a:r><a:t>Line one</a:t></a:r><a:br/><a:r><a:t>Line two</a:t></a:r></a:p>`,
		),
	})

	res, err := New(EngineFitz, nil).Extract(path, ".PPTX")
	require.NoError(t, err)
	assert.Equal(t, 2, res.UnitCount)
	assert.Equal(t,
		"Slide 1:\nAcme\n\n\nSlide 2:\nMarket is big\nTAM $10B\nLine one\nLine two\n",
		res.Content)
}

func TestExtractPPTX_NumericFallback(t *testing.T) {
	path := writeZip(t, map[string]string{
		presentationPart:         `<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
		"ppt/slides/slide10.xml": slideXML(`<a:p><a:r><a:t>ten</a:t></a:r></a:p>`),
		"ppt/slides/slide2.xml":  slideXML(`<a:p><a:r><a:t>two</a:t></a:r></a:p>`),
		"ppt/slides/slide1.xml":  slideXML(),
	})

	res, err := New(EngineFitz, nil).Extract(path, ".pptx")
	require.NoError(t, err)
	assert.Equal(t, 3, res.UnitCount)
	assert.Equal(t, "Slide 1:\n\n\nSlide 2:\ntwo\n\n\nSlide 3:\nten\n", res.Content)
}

func TestExtractPPTX_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pptx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	_, err := New(EngineFitz, nil).Extract(path, ".pptx")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrExtraction)
}

func TestExtractPPTX_MissingPresentation(t *testing.T) {
	path := writeZip(t, map[string]string{"word/document.xml": "<w:document/>"})

	_, err := New(EngineFitz, nil).Extract(path, ".pptx")
	assert.ErrorIs(t, err, model.ErrExtraction)
}
