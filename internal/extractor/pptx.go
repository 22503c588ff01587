package extractor

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
	relsNamespace    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func extractPPTX(filePath string) (Result, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return Result{}, model.WrapError(model.ErrExtraction, "open pptx", err)
	}
	defer zr.Close()

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}
	if _, ok := parts[presentationPart]; !ok {
		return Result{}, model.WrapError(model.ErrExtraction, "open pptx",
			errors.New("missing "+presentationPart))
	}

	order, err := slideOrder(parts)
	if err != nil {
		return Result{}, model.WrapError(model.ErrExtraction, "read slide list", err)
	}

	slides := make([]string, 0, len(order))
	for i, name := range order {
		f, ok := parts[name]
		if !ok {
			return Result{}, model.WrapError(model.ErrExtraction, "read slide",
				fmt.Errorf("missing part %s", name))
		}
		bodies, err := readTextBodies(f)
		if err != nil {
			return Result{}, model.WrapError(model.ErrExtraction, "read slide "+name, err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Slide %d:\n", i+1)
		for _, text := range bodies {
			if strings.TrimSpace(text) == "" {
				continue
			}
			sb.WriteString(text)
			sb.WriteString("\n")
		}
		slides = append(slides, sb.String())
	}

	return Result{
		Content:   strings.Join(slides, "\n\n"),
		UnitCount: len(order),
	}, nil
}

// slideOrder returns slide part names in presentation order. Decks without a
// usable slide list fall back to numeric slideN.xml order.
func slideOrder(parts map[string]*zip.File) ([]string, error) {
	ids, err := readSlideIDs(parts[presentationPart])
	if err != nil {
		return nil, err
	}
	if rels, ok := parts[presentationRels]; ok && len(ids) > 0 {
		targets, err := readRelationships(rels)
		if err != nil {
			return nil, err
		}
		order := make([]string, 0, len(ids))
		for _, id := range ids {
			target, ok := targets[id]
			if !ok {
				return nil, fmt.Errorf("slide relationship %s not found", id)
			}
			order = append(order, resolvePart("ppt", target))
		}
		return order, nil
	}
	return numericSlideOrder(parts), nil
}

func numericSlideOrder(parts map[string]*zip.File) []string {
	type slide struct {
		name string
		n    int
	}
	var found []slide
	for name := range parts {
		m := slidePartPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		found = append(found, slide{name: name, n: n})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	names := make([]string, len(found))
	for i, s := range found {
		names[i] = s.name
	}
	return names
}

func resolvePart(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(base, target)
}

func readSlideIDs(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var ids []string
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" && attr.Name.Space == relsNamespace {
				ids = append(ids, attr.Value)
			}
		}
	}
}

type relationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func readRelationships(f *zip.File) (map[string]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var rels relationships
	if err := xml.NewDecoder(rc).Decode(&rels); err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels.Items))
	for _, r := range rels.Items {
		targets[r.ID] = r.Target
	}
	return targets, nil
}

// readTextBodies returns the text of every txBody in document order, covering
// plain shapes as well as table cells and grouped shapes. Paragraphs are
// separated by "\n" and line breaks become "\n".
func readTextBodies(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var (
		bodies     []string
		body       strings.Builder
		inBody     bool
		paragraphs int
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return bodies, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "txBody":
				inBody = true
				paragraphs = 0
				body.Reset()
			case "p":
				if inBody {
					if paragraphs > 0 {
						body.WriteString("\n")
					}
					paragraphs++
				}
			case "br":
				if inBody {
					body.WriteString("\n")
				}
			case "t":
				if inBody {
					var text string
					if err := dec.DecodeElement(&text, &t); err != nil {
						return nil, err
					}
					body.WriteString(text)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "txBody" && inBody {
				bodies = append(bodies, body.String())
				inBody = false
			}
		}
	}
}
