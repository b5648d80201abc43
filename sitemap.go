package cattery

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	cats, err := a.Store.ListCats("")
	if err != nil {
		return err
	}
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "cats")},
		{Loc: BuildURL(base, "news")},
		{Loc: BuildURL(base, "adopt")},
	}
	for _, cat := range cats {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "cats", formatID(cat.ID)),
			LastMod: dateOnly(cat.CreatedAt),
		})
	}
	for _, art := range articles {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "news", formatID(art.ID)),
			LastMod: dateOnly(art.CreatedAt),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

func dateOnly(rfc3339 string) string {
	if len(rfc3339) >= 10 {
		return rfc3339[:10]
	}
	return rfc3339
}
