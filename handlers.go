package cattery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lavandercats/cattery/images"
)

// catViews resolves each cat's display URLs, preferring the inline photo
// over the filesystem copy.
func (a *App) catViews(cats []Cat) []CatView {
	views := make([]CatView, 0, len(cats))
	for _, cat := range cats {
		views = append(views, a.catView(cat))
	}
	return views
}

func (a *App) catView(cat Cat) CatView {
	return CatView{
		Cat:      cat,
		PhotoURL: images.Display(cat.PhotoInline, cat.PhotoPath, a.Config.PublicPrefix),
		ThumbURL: images.DisplayThumb(cat.PhotoInline, cat.ThumbnailPath, a.Config.PublicPrefix),
	}
}

func (a *App) galleryViews(imgs []ArticleImage) []GalleryImage {
	views := make([]GalleryImage, 0, len(imgs))
	for _, img := range imgs {
		views = append(views, GalleryImage{
			ArticleImage: img,
			URL:          images.Display(img.Inline, img.ImagePath, a.Config.PublicPrefix),
			ThumbURL:     images.DisplayThumb(img.Inline, img.ThumbnailPath, a.Config.PublicPrefix),
		})
	}
	return views
}

func (a *App) handleHome(c echo.Context) error {
	cats, err := a.Store.ListCats("")
	if err != nil {
		return err
	}
	articles, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	if len(articles) > 3 {
		articles = articles[:3]
	}
	return Render(c, a.Views.Home(a.catViews(cats), articles))
}

func (a *App) handleCats(c echo.Context) error {
	role := c.QueryParam("role")
	cats, err := a.Store.ListCats(role)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Cats(a.catViews(cats)))
}

func (a *App) handleCat(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	cat, err := a.Store.GetCat(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, a.Views.Cat(a.catView(cat)))
}

func (a *App) handleArticles(c echo.Context) error {
	articles, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Articles(articles))
}

func (a *App) handleArticle(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.ErrNotFound
	}
	article, err := a.Cache.GetPublished(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	imgs, err := a.Store.ListArticleImages(id)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Article(article, a.galleryViews(imgs)))
}

func (a *App) handleAdoptionPage(c echo.Context) error {
	questions, err := a.Store.ListQuestions()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdoptionForm(questions, CsrfToken(c)))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /api/\n\nSitemap: "+a.Config.URL+"/sitemap.xml\n")
}
