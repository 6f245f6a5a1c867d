package adapter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/amishk599/jobcal/internal/textutil"
)

// Document is a parsed, read-only view of one fetched HTML page. It is owned
// by the extractor it is handed to and never modified after NewDocument.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses body as HTML. Text is NFC-normalized first so that
// decomposed Hangul compares equal to the keywords used by the extractors.
func NewDocument(body string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(norm.NFC.String(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Find runs a CSS selector over the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Text returns the whitespace-collapsed text of the document body.
func (d *Document) Text() string {
	return selectionText(d.doc.Find("body"))
}

// BlockText returns the body text with one line per block element. Lines are
// trimmed, inner whitespace is collapsed and blank lines are dropped.
func (d *Document) BlockText() string {
	return selectionBlockText(d.doc.Find("body"))
}

// firstText returns the cleaned text of the first element matched by each
// selector in turn, skipping candidates rejected by accept.
func (d *Document) firstText(accept func(string) bool, selectors ...string) string {
	for _, sel := range selectors {
		s := d.doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		text := selectionText(s)
		if text == "" {
			continue
		}
		if accept == nil || accept(text) {
			return text
		}
	}
	return ""
}

// attr returns the cleaned attribute value of the first element matching
// selector.
func (d *Document) attr(selector, name string) string {
	v, ok := d.doc.Find(selector).First().Attr(name)
	if !ok {
		return ""
	}
	return textutil.CleanText(v)
}

// meta returns the content of the first meta tag matching selector.
func (d *Document) meta(selector string) string {
	return d.attr(selector, "content")
}

// textOrContent reads the content attribute when present, else the element
// text. Used for selector lists that mix meta tags and headings.
func textOrContent(s *goquery.Selection) string {
	if v, ok := s.Attr("content"); ok {
		return textutil.CleanText(v)
	}
	return selectionText(s)
}

// longestBlock returns the block text of the element matched by selectors
// whose cleaned text is longest and longer than floor runes.
func (d *Document) longestBlock(floor int, selectors ...string) string {
	best, bestLen := "", floor
	for _, sel := range selectors {
		d.doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			n := utf8.RuneCountInString(selectionText(s))
			if n > bestLen {
				best, bestLen = selectionBlockText(s), n
			}
		})
	}
	return best
}

// firstBlock tries selectors in order and returns the block text of the
// longest element matched by the first selector that clears floor runes.
func (d *Document) firstBlock(floor int, selectors ...string) string {
	for _, sel := range selectors {
		if text := d.longestBlock(floor, sel); text != "" {
			return text
		}
	}
	return ""
}

// htmlFragmentText converts an HTML snippet (as found in JSON payloads) to
// block text. Plain text passes through with its line breaks kept.
func htmlFragmentText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return textutil.NormalizeRawText(fragment)
	}
	doc, err := NewDocument(fragment)
	if err != nil {
		return ""
	}
	return doc.BlockText()
}

// sourceBreaks folds line breaks inside text nodes; only block elements
// start new lines.
var sourceBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

var skipText = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// nodeText walks n and writes its visible text. Block elements are wrapped in
// sep so that adjacent blocks never glue together.
func nodeText(b *strings.Builder, n *html.Node, sep string) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(sourceBreaks.Replace(n.Data))
		return
	case html.ElementNode:
		if skipText[n.DataAtom] {
			return
		}
	}
	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteString(sep)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodeText(b, c, sep)
	}
	if block {
		b.WriteString(sep)
	}
}

// selectionText is the cleaned inline text of every node in s.
func selectionText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		nodeText(&b, n, " ")
	}
	return textutil.CleanText(b.String())
}

// selectionBlockText is the line-structured text of every node in s.
func selectionBlockText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		nodeText(&b, n, "\n")
	}
	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = textutil.CleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
