package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quillpost/internal/models"
	"quillpost/internal/services"
	"quillpost/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	sitemapPostLimit = 500
	rssItemLimit     = 20
	rssSummaryBlocks = 3
)

type SEOHandler struct {
	content *services.ContentService
	siteURL string
}

func NewSEOHandler(content *services.ContentService, siteURL string) *SEOHandler {
	return &SEOHandler{content: content, siteURL: strings.TrimRight(siteURL, "/")}
}

func writeXML(c *gin.Context, contentType string, v any) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

Disallow: /admin/
Disallow: /auth/
Disallow: /create/
Disallow: /follow/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapXML lists the home page, every group and the most recent posts.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	ctx := c.Request.Context()
	today := time.Now().Format("2006-01-02")

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs,
		sitemapURL{Loc: h.siteURL + "/", LastMod: today, ChangeFreq: "hourly", Priority: "1.0"},
		sitemapURL{Loc: h.siteURL + "/groups/", LastMod: today, ChangeFreq: "weekly", Priority: "0.8"},
	)

	groups, err := h.content.Groups(ctx)
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	for _, g := range groups {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + "/group/" + url.PathEscape(g.Slug) + "/",
			ChangeFreq: "daily",
			Priority:   "0.7",
		})
	}

	posts, err := h.content.RecentPosts(ctx, sitemapPostLimit)
	if err != nil {
		RespondError(c, err, nil)
		return
	}
	for _, p := range posts {
		priority, freq := "0.6", "weekly"
		if time.Since(p.CreatedAt) < 7*24*time.Hour {
			priority, freq = "0.8", "daily"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + postPath(p.ID),
			LastMod:    p.CreatedAt.Format("2006-01-02"),
			ChangeFreq: freq,
			Priority:   priority,
		})
	}

	writeXML(c, "application/xml; charset=utf-8", set)
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description cdata   `xml:"description"`
	Author      string  `xml:"author"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

func rssItemFor(siteURL string, p models.Post) rssItem {
	link := siteURL + postPath(p.ID)
	summary := utils.LeadingBlocks(string(utils.RenderMarkdown(p.Text)), rssSummaryBlocks)
	item := rssItem{
		Title:       models.Truncate(p.Text, 30),
		Link:        link,
		Description: cdata{Value: summary},
		Author:      p.Author.Username,
		PubDate:     p.CreatedAt.Format(time.RFC1123Z),
		GUID:        rssGUID{IsPermaLink: true, Value: link},
	}
	if p.Group != nil {
		item.Category = p.Group.Title
	}
	return item
}

// RSSFeed publishes the newest posts of the global feed as RSS 2.0.
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	posts, err := h.content.RecentPosts(c.Request.Context(), rssItemLimit)
	if err != nil {
		RespondError(c, err, nil)
		return
	}

	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         services.GlobalFeedTitle,
			Link:          h.siteURL + "/",
			Description:   services.GlobalFeedDescription,
			LastBuildDate: time.Now().Format(time.RFC1123Z),
		},
	}
	for _, p := range posts {
		doc.Channel.Items = append(doc.Channel.Items, rssItemFor(h.siteURL, p))
	}

	writeXML(c, "application/rss+xml; charset=utf-8", doc)
}
