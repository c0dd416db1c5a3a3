package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// utf8BOM lets spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// rawDataHeader lists the CSV columns, one row per crawled page.
var rawDataHeader = []string{
	"url", "title", "meta_descriptions", "h1s", "h2s", "canonicals", "hreflangs",
	"word_count", "content_hash", "internal_links", "external_links", "images",
}

// CSVWriter outputs the raw page data of an audit as UTF-8 CSV with a
// byte order mark. Multi-valued fields are joined with newlines.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs one row per crawled page.
func (w *CSVWriter) Write(report *model.AuditReport) (int, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	cw := csv.NewWriter(&buf)
	if err := cw.Write(rawDataHeader); err != nil {
		return 0, err
	}
	for _, p := range report.Pages {
		if err := cw.Write(pageRow(p)); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

func pageRow(p *model.PageRecord) []string {
	hreflangs := make([]string, 0, len(p.Hreflangs))
	for _, h := range p.Hreflangs {
		hreflangs = append(hreflangs, h.Lang+" "+h.Href)
	}
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.Alt == "" {
			images = append(images, img.Src)
			continue
		}
		images = append(images, img.Src+" ("+img.Alt+")")
	}

	return []string{
		p.URL,
		p.Title,
		joinLines(p.MetaDescriptions),
		joinLines(p.H1s),
		joinLines(p.H2s),
		joinLines(p.Canonicals),
		joinLines(hreflangs),
		strconv.Itoa(p.WordCount),
		p.ContentHash,
		joinLines(p.InternalLinks),
		joinLines(p.ExternalLinks),
		joinLines(images),
	}
}

func joinLines(values []string) string {
	return strings.Join(values, "\n")
}
