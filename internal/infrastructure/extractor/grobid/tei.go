package grobid

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

// flatText collects all character data under an element, nested markup
// included, the way GROBID interleaves <ref> and formula tags inside
// paragraphs.
type flatText string

func (t *flatText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(v)
		}
	}
	*t = flatText(strings.Join(strings.Fields(sb.String()), " "))
	return nil
}

type teiDocument struct {
	Title        flatText   `xml:"teiHeader>fileDesc>titleStmt>title"`
	Authors      []teiName  `xml:"teiHeader>fileDesc>sourceDesc>biblStruct>analytic>author>persName"`
	AbstractDivs []teiDiv   `xml:"teiHeader>profileDesc>abstract>div"`
	AbstractPs   []flatText `xml:"teiHeader>profileDesc>abstract>p"`
	BodyDivs     []teiDiv   `xml:"text>body>div"`
}

type teiName struct {
	Forenames []flatText `xml:"forename"`
	Surname   flatText   `xml:"surname"`
}

type teiDiv struct {
	Head flatText   `xml:"head"`
	Ps   []flatText `xml:"p"`
}

type teiContent struct {
	Title    string
	Authors  []string
	Abstract string
	Sections []domain.Section
}

// Headings whose divs carry no summarizable prose.
var skippedHeadings = []string{"acknowledg", "references", "bibliography", "funding", "conflict of interest"}

func skipHeading(head string) bool {
	head = strings.ToLower(head)
	for _, marker := range skippedHeadings {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}

func parseTEI(data []byte) (*teiContent, error) {
	var doc teiDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal tei: %w", err)
	}

	out := &teiContent{Title: string(doc.Title)}

	for _, name := range doc.Authors {
		parts := make([]string, 0, len(name.Forenames)+1)
		for _, fn := range name.Forenames {
			if fn != "" {
				parts = append(parts, string(fn))
			}
		}
		if name.Surname != "" {
			parts = append(parts, string(name.Surname))
		}
		if len(parts) > 0 {
			out.Authors = append(out.Authors, strings.Join(parts, " "))
		}
	}

	out.Abstract = joinParagraphs(doc.AbstractPs)
	for _, div := range doc.AbstractDivs {
		if text := joinParagraphs(div.Ps); text != "" {
			if out.Abstract != "" {
				out.Abstract += " "
			}
			out.Abstract += text
		}
	}
	if out.Abstract != "" {
		out.Sections = append(out.Sections, domain.Section{Heading: "abstract", Text: out.Abstract})
	}

	for i, div := range doc.BodyDivs {
		head := string(div.Head)
		if skipHeading(head) {
			continue
		}
		text := joinParagraphs(div.Ps)
		if text == "" {
			continue
		}
		if head == "" {
			head = fmt.Sprintf("section %d", i+1)
		}
		out.Sections = append(out.Sections, domain.Section{Heading: head, Text: text})
	}
	return out, nil
}

func joinParagraphs(ps []flatText) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p != "" {
			parts = append(parts, string(p))
		}
	}
	return strings.Join(parts, " ")
}
