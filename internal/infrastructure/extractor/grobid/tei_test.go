package grobid

import (
	"strings"
	"testing"
)

const sampleTEI = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader>
    <fileDesc>
      <titleStmt>
        <title level="a" type="main">Attention Is Not Enough</title>
      </titleStmt>
      <sourceDesc>
        <biblStruct>
          <analytic>
            <author>
              <persName><forename type="first">Ada</forename><surname>Lovelace</surname></persName>
            </author>
            <author>
              <persName><forename type="first">Alan</forename><forename type="middle">M</forename><surname>Turing</surname></persName>
            </author>
          </analytic>
        </biblStruct>
      </sourceDesc>
    </fileDesc>
    <profileDesc>
      <abstract>
        <div><p>We study transformer limits.</p><p>Results show gaps.</p></div>
      </abstract>
    </profileDesc>
  </teiHeader>
  <text>
    <body>
      <div><head n="1">Introduction</head><p>Prior work <ref type="bibr">[12]</ref> explored this.</p></div>
      <div><head n="2">Methods</head><p>We train on benchmarks.</p><p>Ablations follow.</p></div>
      <div><head>Acknowledgements</head><p>We thank reviewers.</p></div>
      <div><p>Closing remarks without heading.</p></div>
    </body>
  </text>
</TEI>`

func TestParseTEI(t *testing.T) {
	content, err := parseTEI([]byte(sampleTEI))
	if err != nil {
		t.Fatalf("parseTEI: %v", err)
	}

	if content.Title != "Attention Is Not Enough" {
		t.Fatalf("title = %q", content.Title)
	}
	if len(content.Authors) != 2 || content.Authors[0] != "Ada Lovelace" || content.Authors[1] != "Alan M Turing" {
		t.Fatalf("authors = %v", content.Authors)
	}
	if content.Abstract != "We study transformer limits. Results show gaps." {
		t.Fatalf("abstract = %q", content.Abstract)
	}

	var headings []string
	for _, s := range content.Sections {
		headings = append(headings, s.Heading)
	}
	want := []string{"abstract", "Introduction", "Methods", "section 4"}
	if len(headings) != len(want) {
		t.Fatalf("headings = %v, want %v", headings, want)
	}
	for i := range want {
		if headings[i] != want[i] {
			t.Fatalf("heading[%d] = %q, want %q", i, headings[i], want[i])
		}
	}
}

func TestParseTEIKeepsNestedRefText(t *testing.T) {
	content, err := parseTEI([]byte(sampleTEI))
	if err != nil {
		t.Fatalf("parseTEI: %v", err)
	}
	intro := content.Sections[1]
	if !strings.Contains(intro.Text, "[12]") {
		t.Fatalf("nested ref text lost: %q", intro.Text)
	}
}

func TestParseTEIInvalidXML(t *testing.T) {
	if _, err := parseTEI([]byte("<html>service busy</html")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSkipHeading(t *testing.T) {
	for _, h := range []string{"Acknowledgements", "REFERENCES", "Bibliography", "Funding"} {
		if !skipHeading(h) {
			t.Fatalf("expected %q to be skipped", h)
		}
	}
	for _, h := range []string{"Introduction", "Results", "Discussion"} {
		if skipHeading(h) {
			t.Fatalf("did not expect %q to be skipped", h)
		}
	}
}
