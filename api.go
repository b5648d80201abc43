package cattery

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lavandercats/cattery/images"
)

func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// requireAdmin guards mutating API endpoints. The JSON API is used by the
// admin dashboard, which authenticates via the same session cookie as the
// admin pages.
func requireAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return nil
}

func validRole(role string) bool {
	switch role {
	case "king", "queen", "kitten":
		return true
	}
	return false
}

type catRequest struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	Breed            string `json:"breed"`
	Bio              string `json:"bio"`
	PhotoPath        string `json:"photo_path"`
	ThumbnailPath    string `json:"thumbnail_path"`
	PhotoBase64      string `json:"photo_base64"`
	RabiesVaccinated bool   `json:"rabies_vaccinated"`
	Award            string `json:"award"`
}

type catResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Breed            string `json:"breed"`
	Bio              string `json:"bio"`
	PhotoURL         string `json:"photo_url"`
	ThumbnailURL     string `json:"thumbnail_url"`
	PhotoBase64      string `json:"photo_base64,omitempty"`
	RabiesVaccinated bool   `json:"rabies_vaccinated"`
	Award            string `json:"award"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

func (a *App) catResponse(cat Cat) catResponse {
	return catResponse{
		ID:               cat.ID,
		Name:             cat.Name,
		Role:             cat.Role,
		Breed:            cat.Breed,
		Bio:              cat.Bio,
		PhotoURL:         images.Display(cat.PhotoInline, cat.PhotoPath, a.Config.PublicPrefix),
		ThumbnailURL:     images.DisplayThumb(cat.PhotoInline, cat.ThumbnailPath, a.Config.PublicPrefix),
		PhotoBase64:      cat.PhotoInline,
		RabiesVaccinated: cat.RabiesVaccinated,
		Award:            cat.Award,
		CreatedAt:        cat.CreatedAt,
		UpdatedAt:        cat.UpdatedAt,
	}
}

func (a *App) handleListCats(c echo.Context) error {
	role := c.QueryParam("role")
	if role != "" && !validRole(role) {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be king, queen or kitten")
	}
	cats, err := a.Store.ListCats(role)
	if err != nil {
		return err
	}
	out := make([]catResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, a.catResponse(cat))
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleCreateCat(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req catRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !validRole(req.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be king, queen or kitten")
	}
	cat := Cat{
		Name:             req.Name,
		Role:             req.Role,
		Breed:            req.Breed,
		Bio:              req.Bio,
		PhotoPath:        req.PhotoPath,
		ThumbnailPath:    req.ThumbnailPath,
		PhotoInline:      req.PhotoBase64,
		RabiesVaccinated: req.RabiesVaccinated,
		Award:            req.Award,
	}
	if err := a.Store.CreateCat(&cat); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a.catResponse(cat))
}

func (a *App) handleGetCat(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cat, err := a.Store.GetCat(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cat not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, a.catResponse(cat))
}

func (a *App) handleUpdateCat(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cat, err := a.Store.GetCat(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cat not found")
		}
		return err
	}
	var req catRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	prevPhoto, prevThumb := cat.PhotoPath, cat.ThumbnailPath
	if req.Name != "" {
		cat.Name = strings.TrimSpace(req.Name)
	}
	if req.Role != "" {
		if !validRole(req.Role) {
			return echo.NewHTTPError(http.StatusBadRequest, "role must be king, queen or kitten")
		}
		cat.Role = req.Role
	}
	cat.Breed = req.Breed
	cat.Bio = req.Bio
	cat.RabiesVaccinated = req.RabiesVaccinated
	cat.Award = req.Award
	if req.PhotoPath != "" {
		cat.PhotoPath = req.PhotoPath
	}
	if req.ThumbnailPath != "" {
		cat.ThumbnailPath = req.ThumbnailPath
	}
	if req.PhotoBase64 != "" {
		cat.PhotoInline = req.PhotoBase64
	}
	if err := a.Store.UpdateCat(&cat); err != nil {
		return err
	}
	// Replacing the photo orphans the old mirror files; remove them once
	// the new row is durable.
	if prevPhoto != "" && prevPhoto != cat.PhotoPath {
		a.Images.DeleteArtifacts(prevPhoto)
	}
	if prevThumb != "" && prevThumb != cat.ThumbnailPath {
		a.Images.DeleteArtifacts(prevThumb)
	}
	return c.JSON(http.StatusOK, a.catResponse(cat))
}

func (a *App) handleDeleteCat(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cat, err := a.Store.GetCat(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cat not found")
		}
		return err
	}
	if err := a.Store.DeleteCat(id); err != nil {
		return err
	}
	a.Images.DeleteArtifacts(cat.PhotoPath, cat.ThumbnailPath)
	return c.NoContent(http.StatusNoContent)
}

type articleRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Author        string `json:"author"`
	FeaturedImage string `json:"featured_image"`
	Published     bool   `json:"published"`
}

type articleResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Author        string `json:"author"`
	FeaturedImage string `json:"featured_image,omitempty"`
	Published     bool   `json:"published"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

func toArticleResponse(art Article) articleResponse {
	return articleResponse{
		ID:            art.ID,
		Title:         art.Title,
		Content:       art.Content,
		Author:        art.Author,
		FeaturedImage: art.FeaturedImage,
		Published:     art.Published,
		CreatedAt:     art.CreatedAt,
		UpdatedAt:     art.UpdatedAt,
	}
}

func (a *App) handleListArticles(c echo.Context) error {
	publishedOnly := !IsAdmin(c) || c.QueryParam("published") == "true"
	articles, err := a.Store.ListArticles(publishedOnly)
	if err != nil {
		return err
	}
	out := make([]articleResponse, 0, len(articles))
	for _, art := range articles {
		out = append(out, toArticleResponse(art))
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleCreateArticle(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	art := Article{
		Title:         req.Title,
		Content:       req.Content,
		Author:        req.Author,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
	}
	if err := a.Store.CreateArticle(&art); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, toArticleResponse(art))
}

func (a *App) handleGetArticle(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	art, err := a.Store.GetArticle(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return err
	}
	if !art.Published && !IsAdmin(c) {
		return echo.NewHTTPError(http.StatusNotFound, "article not found")
	}
	return c.JSON(http.StatusOK, toArticleResponse(art))
}

func (a *App) handleUpdateArticle(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	art, err := a.Store.GetArticle(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return err
	}
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title != "" {
		art.Title = strings.TrimSpace(req.Title)
	}
	art.Content = req.Content
	if req.Author != "" {
		art.Author = req.Author
	}
	art.FeaturedImage = req.FeaturedImage
	art.Published = req.Published
	if err := a.Store.UpdateArticle(&art); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, toArticleResponse(art))
}

func (a *App) handleDeleteArticle(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	// Gallery rows cascade with the article; grab them first so the
	// on-disk variants can be removed too.
	imgs, err := a.Store.ListArticleImages(id)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteArticle(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return err
	}
	for _, img := range imgs {
		a.Images.DeleteArtifacts(img.ImagePath, img.ThumbnailPath)
	}
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

type galleryImageResponse struct {
	ID           int64  `json:"id"`
	ArticleID    int64  `json:"article_id"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Caption      string `json:"caption,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

func (a *App) galleryImageResponse(img ArticleImage) galleryImageResponse {
	return galleryImageResponse{
		ID:           img.ID,
		ArticleID:    img.ArticleID,
		ImageURL:     images.Display(img.Inline, img.ImagePath, a.Config.PublicPrefix),
		ThumbnailURL: images.DisplayThumb(img.Inline, img.ThumbnailPath, a.Config.PublicPrefix),
		Caption:      img.Caption,
		DisplayOrder: img.DisplayOrder,
	}
}

func (a *App) handleListArticleImages(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	imgs, err := a.Store.ListArticleImages(id)
	if err != nil {
		return err
	}
	out := make([]galleryImageResponse, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, a.galleryImageResponse(img))
	}
	return c.JSON(http.StatusOK, out)
}

// handleUploadArticleImage ingests an uploaded file and attaches it to the
// article's gallery in one step.
func (a *App) handleUploadArticleImage(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := a.Store.GetArticle(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return err
	}
	data, filename, err := a.readUpload(c, "file")
	if err != nil {
		return err
	}
	res, err := a.Images.Ingest(data, filename, images.CategoryArticle, "article")
	if err != nil {
		return uploadError(err)
	}
	img := ArticleImage{
		ArticleID:     id,
		ImagePath:     res.StoredPath,
		ThumbnailPath: res.ThumbnailPath,
		Inline:        res.Inline,
		Caption:       c.FormValue("caption"),
		DisplayOrder:  formInt(c, "display_order"),
	}
	if err := a.Store.AddArticleImage(&img); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a.galleryImageResponse(img))
}

type associateImageRequest struct {
	ImagePath     string `json:"image_path"`
	ThumbnailPath string `json:"thumbnail_path"`
	ImageBase64   string `json:"image_base64"`
	Caption       string `json:"caption"`
	DisplayOrder  int    `json:"display_order"`
}

// handleAssociateArticleImage attaches an already-ingested image (uploaded
// through /api/upload/photo) to an article's gallery.
func (a *App) handleAssociateArticleImage(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := a.Store.GetArticle(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return err
	}
	var req associateImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ImageBase64 == "" && req.ImagePath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "image_base64 or image_path is required")
	}
	img := ArticleImage{
		ArticleID:     id,
		ImagePath:     req.ImagePath,
		ThumbnailPath: req.ThumbnailPath,
		Inline:        req.ImageBase64,
		Caption:       req.Caption,
		DisplayOrder:  req.DisplayOrder,
	}
	if err := a.Store.AddArticleImage(&img); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a.galleryImageResponse(img))
}

func (a *App) handleClearArticleImages(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	imgs, err := a.Store.ClearArticleImages(id)
	if err != nil {
		return err
	}
	for _, img := range imgs {
		a.Images.DeleteArtifacts(img.ImagePath, img.ThumbnailPath)
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": len(imgs)})
}

func (a *App) handleDeleteArticleImage(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	imageID, err := paramID(c, "imageID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image id")
	}
	img, err := a.Store.GetArticleImage(id, imageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image not found")
		}
		return err
	}
	if err := a.Store.DeleteArticleImage(id, imageID); err != nil {
		return err
	}
	a.Images.DeleteArtifacts(img.ImagePath, img.ThumbnailPath)
	return c.NoContent(http.StatusNoContent)
}

func formInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.FormValue(name))
	return n
}
