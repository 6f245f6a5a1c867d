package adapter

import (
	"github.com/PuerkitoBio/goquery"
)

// jobPostingLD returns the first schema.org JobPosting object found in the
// page's LD+JSON blocks. Blocks may hold a single object, an array, or an
// "@graph" list. Malformed blocks are skipped.
func (d *Document) jobPostingLD() Payload {
	var found Payload
	d.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		root, ok := ParsePayload(s.Text())
		if !ok {
			return true
		}
		candidates := []Payload{root}
		candidates = append(candidates, root.Items()...)
		candidates = append(candidates, root.At("@graph").Items()...)
		for _, c := range candidates {
			if c.Is("@type", "JobPosting") {
				found = c
				return false
			}
		}
		return true
	})
	return found
}

// nextData returns props.pageProps.initialData from a Next.js page, the
// zero Payload when the script is missing or malformed.
func (d *Document) nextData() Payload {
	script := d.doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return Payload{}
	}
	root, ok := ParsePayload(script.Text())
	if !ok {
		return Payload{}
	}
	return root.At("props", "pageProps", "initialData")
}

// ldLocation joins the region and locality of an LD+JSON jobLocation, which
// may be an object or a list of objects.
func ldLocation(ld Payload) string {
	loc := ld.At("jobLocation")
	if items := loc.Items(); len(items) > 0 {
		loc = items[0]
	}
	addr := loc.At("address")
	if street := addr.Text("streetAddress"); street != "" {
		return street
	}
	return joinNonBlank(" ", addr.Text("addressRegion"), addr.Text("addressLocality"))
}
