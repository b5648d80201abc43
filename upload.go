package cattery

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lavandercats/cattery/images"
)

type uploadData struct {
	FullImage        string `json:"full_image,omitempty"`
	Thumbnail        string `json:"thumbnail,omitempty"`
	Base64Image      string `json:"base64_image"`
	OriginalFilename string `json:"original_filename"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
}

type uploadResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *uploadData `json:"data,omitempty"`
}

// readUpload pulls one file out of a multipart request and returns its
// bytes along with the client-supplied filename. The multipart header
// size is gated before the payload is buffered, so an oversized upload
// is rejected without reading it into memory.
func (a *App) readUpload(c echo.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if err := a.Images.Validate(fh.Filename, fh.Size); err != nil {
		return nil, "", uploadError(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Filename, nil
}

// uploadError maps pipeline errors to HTTP status codes: rejected inputs
// are the client's fault, decode/encode and storage faults are ours.
func uploadError(err error) error {
	switch {
	case errors.Is(err, images.ErrUnsupportedFormat), errors.Is(err, images.ErrPayloadTooLarge):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, images.ErrProcessing):
		return echo.NewHTTPError(http.StatusInternalServerError, "image processing failed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "image upload failed")
	}
}

func uploadCategory(c echo.Context) (images.Category, string) {
	if c.FormValue("article_image") == "true" {
		return images.CategoryArticle, "article"
	}
	prefix := Slugify(c.FormValue("cat_name"))
	if prefix == "" {
		prefix = "cat"
	}
	return images.CategoryCat, prefix
}

func (a *App) handleUploadPhoto(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	data, filename, err := a.readUpload(c, "file")
	if err != nil {
		return err
	}
	category, prefix := uploadCategory(c)
	res, err := a.Images.Ingest(data, filename, category, prefix)
	if err != nil {
		return uploadError(err)
	}
	return c.JSON(http.StatusOK, uploadResponse{
		Success: true,
		Message: "photo uploaded",
		Data: &uploadData{
			FullImage:        res.StoredPath,
			Thumbnail:        res.ThumbnailPath,
			Base64Image:      res.Inline,
			OriginalFilename: filename,
			Width:            res.Width,
			Height:           res.Height,
		},
	})
}

type multiUploadResponse struct {
	Success bool              `json:"success"`
	Results []uploadResponse  `json:"results"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// handleUploadMultiple ingests a batch of files. Each file succeeds or
// fails on its own; one bad file does not sink the batch.
func (a *App) handleUploadMultiple(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form is required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "files is required")
	}
	category, prefix := uploadCategory(c)

	resp := multiUploadResponse{Success: true}
	for _, fh := range files {
		if err := a.Images.Validate(fh.Filename, fh.Size); err != nil {
			resp.Success = false
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[fh.Filename] = err.Error()
			continue
		}
		f, err := fh.Open()
		if err != nil {
			resp.Success = false
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[fh.Filename] = err.Error()
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			resp.Success = false
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[fh.Filename] = err.Error()
			continue
		}
		res, err := a.Images.Ingest(data, fh.Filename, category, prefix)
		if err != nil {
			resp.Success = false
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[fh.Filename] = err.Error()
			continue
		}
		resp.Results = append(resp.Results, uploadResponse{
			Success: true,
			Message: "photo uploaded",
			Data: &uploadData{
				FullImage:        res.StoredPath,
				Thumbnail:        res.ThumbnailPath,
				Base64Image:      res.Inline,
				OriginalFilename: fh.Filename,
				Width:            res.Width,
				Height:           res.Height,
			},
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleUploadCleanup(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	n, err := a.Images.SweepTemp(a.Config.TempMaxAge)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": n})
}

// handleBackfillInline converts legacy path-only records to the inline
// representation by re-reading their stored full variants.
func (a *App) handleBackfillInline(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	catsDone, catsFailed := 0, 0
	cats, err := a.Store.catsMissingInline()
	if err != nil {
		return err
	}
	for _, cat := range cats {
		inline, err := a.Images.InlineFromFile(cat.PhotoPath)
		if err != nil {
			c.Logger().Warnf("backfill: cat %d: %v", cat.ID, err)
			catsFailed++
			continue
		}
		if err := a.Store.UpdateCatInline(cat.ID, inline); err != nil {
			return err
		}
		catsDone++
	}

	imgsDone, imgsFailed := 0, 0
	imgs, err := a.Store.articleImagesMissingInline()
	if err != nil {
		return err
	}
	for _, img := range imgs {
		inline, err := a.Images.InlineFromFile(img.ImagePath)
		if err != nil {
			c.Logger().Warnf("backfill: article image %d: %v", img.ID, err)
			imgsFailed++
			continue
		}
		if err := a.Store.UpdateArticleImageInline(img.ID, inline); err != nil {
			return err
		}
		imgsDone++
	}

	return c.JSON(http.StatusOK, map[string]int{
		"cats_backfilled":           catsDone,
		"cats_failed":               catsFailed,
		"article_images_backfilled": imgsDone,
		"article_images_failed":     imgsFailed,
	})
}
