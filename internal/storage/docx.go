package storage

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
)

const (
	docxFont     = "Times New Roman"
	docxBodySize = 13
	docxColor    = "000000"
)

var (
	mdHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	mdListItem = regexp.MustCompile(`^[\-\*]\s+(?:\[( |x|X)\]\s+)?(.+)$`)
	mdStrong   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdCode     = strings.NewReplacer("`", "", "__", "")
)

// span is a run of text with one weight.
type span struct {
	text string
	bold bool
}

// saveDocx writes doc as a Word document at path.
func saveDocx(doc *summarizer.Document, path string) error {
	d, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	meta := doc.Metadata
	writeLine(d, []span{{text: "Meeting Summary: " + meta.Title, bold: true}}, docxBodySize+3)
	for _, field := range [][2]string{
		{"Date", strings.TrimSpace(meta.Date + " " + meta.Time)},
		{"Duration", meta.Duration},
		{"Participants", strings.Join(meta.Participants, ", ")},
		{"Type", meta.MeetingType},
	} {
		writeLine(d, []span{{text: field[0] + ": ", bold: true}, {text: field[1]}}, docxBodySize)
	}

	for _, line := range strings.Split(doc.Body, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == "---":
		case mdHeading.MatchString(line):
			m := mdHeading.FindStringSubmatch(line)
			// #: 16pt, ##: 15pt, ###: 14pt, deeper: body size.
			size := max(docxBodySize, docxBodySize+4-len(m[1]))
			writeLine(d, []span{{text: m[2], bold: true}}, size)
		case mdListItem.MatchString(line):
			m := mdListItem.FindStringSubmatch(line)
			writeLine(d, append([]span{{text: listMark(m[1])}}, inlineSpans(m[2])...), docxBodySize)
		default:
			writeLine(d, inlineSpans(line), docxBodySize)
		}
	}

	return d.SaveTo(path)
}

// listMark maps a Markdown checkbox state ("", " ", "x") to its bullet.
func listMark(box string) string {
	switch box {
	case "":
		return "• "
	case " ":
		return "☐ "
	default:
		return "☑ "
	}
}

// inlineSpans splits **bold** segments out of text and drops other inline markup.
func inlineSpans(text string) []span {
	var spans []span
	last := 0
	for _, loc := range mdStrong.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, span{text: text[last:loc[0]]})
		}
		spans = append(spans, span{text: text[loc[2]:loc[3]], bold: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, span{text: text[last:]})
	}
	return spans
}

func writeLine(d *docx.RootDoc, spans []span, size int) {
	p := d.AddParagraph("")
	for _, sp := range spans {
		text := mdCode.Replace(strings.ReplaceAll(sp.text, "**", ""))
		if text == "" {
			continue
		}
		run := p.AddText(text).Font(docxFont).Size(uint64(size)).Color(docxColor)
		if sp.bold {
			run.Bold(true)
		}
	}
}
