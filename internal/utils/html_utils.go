package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent marks images lazy and strips the referrer from outbound
// requests. Input must already be sanitized.
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	// goquery wraps fragments in html/body
	html, _ := doc.Find("body").Html()
	if html == "" {
		html, _ = doc.Html()
	}
	return template.HTML(html)
}

// LeadingBlocks keeps the first n top-level elements of an HTML fragment,
// used for feed summaries.
func LeadingBlocks(htmlStr string, n int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return htmlStr
	}

	var b strings.Builder
	blocks := doc.Find("body").Children()
	blocks.Slice(0, min(n, blocks.Length())).Each(func(i int, s *goquery.Selection) {
		if out, err := goquery.OuterHtml(s); err == nil {
			b.WriteString(out)
		}
	})
	if b.Len() == 0 {
		return htmlStr
	}
	return b.String()
}
