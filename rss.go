package cattery

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	base := a.Config.URL
	items := make([]rssItem, 0, len(articles))
	for _, art := range articles {
		pubDate := ""
		if t, err := time.Parse(time.RFC3339, art.CreatedAt); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		articleURL := BuildURL(base, "news", formatID(art.ID))
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        articleURL,
			Description: summarize(art.Content),
			PubDate:     pubDate,
			GUID:        articleURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// summarize truncates article content to a feed-sized teaser on a rune
// boundary.
func summarize(content string) string {
	const max = 280
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
