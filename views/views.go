// Package views renders the default cattery site templates as plain
// templ components. Deployments that want a different look pass their
// own ViewFuncs instead.
package views

import (
	"context"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/lavandercats/cattery"
)

// Renderer builds the default page components around a shared layout.
type Renderer struct {
	Config cattery.SiteConfig
}

// New returns a Renderer for the given site configuration.
func New(cfg cattery.SiteConfig) *Renderer {
	return &Renderer{Config: cfg}
}

// Funcs returns the ViewFuncs wiring for this renderer.
func (r *Renderer) Funcs() cattery.ViewFuncs {
	return cattery.ViewFuncs{
		Home:           r.Home,
		Cats:           r.Cats,
		Cat:            r.Cat,
		Articles:       r.Articles,
		Article:        r.Article,
		AdoptionForm:   r.AdoptionForm,
		AdminLogin:     r.AdminLogin,
		AdminDashboard: r.AdminDashboard,
		NotFound:       r.NotFound,
		ServerError:    r.ServerError,
	}
}

func esc(s string) string {
	return html.EscapeString(s)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// bodyFunc writes a page's main content. The context flows through to
// nested components.
type bodyFunc func(ctx context.Context, w io.Writer) error

// layout writes the shared page shell around body.
func (r *Renderer) layout(meta cattery.PageMeta, body bodyFunc) templ.Component {
	cfg := r.Config
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := meta.Title
		if title == "" {
			title = cfg.Name
		} else {
			title = title + " — " + cfg.Name
		}
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>`+
			esc(title)+`</title><meta name="description" content="`+esc(description)+`"/><meta property="og:title" content="`+esc(title)+
			`"/><meta property="og:description" content="`+esc(description)+`"/><meta property="og:type" content="`+esc(ogType)+`"/>`); err != nil {
			return err
		}
		if meta.URL != "" {
			if _, err := io.WriteString(w, `<link rel="canonical" href="`+esc(meta.URL)+`"/><meta property="og:url" content="`+esc(meta.URL)+`"/>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<link rel="stylesheet" href="`+esc(cfg.PublicPrefix)+`/styles.css"/>`+
			`<script type="application/ld+json">`+cattery.WebsiteJsonLD(cfg)+`</script>`+
			`</head><body><header class="site-header"><a class="site-name" href="/">`+esc(cfg.Name)+`</a>`+
			`<nav><a href="/cats/">Our Cats</a><a href="/news/">News</a><a href="/adopt/">Adoption</a><a href="/contract.pdf">Contract</a></nav></header><main>`); err != nil {
			return err
		}
		if err := body(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main><footer class="site-footer"><p>&copy; `+esc(cfg.Name)+`</p></footer></body></html>`)
		return err
	})
}

// catCard writes one cat tile used on the home and listing pages.
func catCard(w io.Writer, cat cattery.CatView) error {
	if _, err := io.WriteString(w, `<article class="cat-card"><a href="/cats/`+itoa(cat.ID)+`/">`); err != nil {
		return err
	}
	if cat.ThumbURL != "" {
		if _, err := io.WriteString(w, `<img src="`+esc(cat.ThumbURL)+`" alt="`+esc(cat.Name)+`" loading="lazy"/>`); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `<h3>`+esc(cat.Name)+`</h3></a><p class="cat-role">`+esc(cat.Role)+`</p>`); err != nil {
		return err
	}
	if cat.Breed != "" {
		if _, err := io.WriteString(w, `<p class="cat-breed">`+esc(cat.Breed)+`</p>`); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</article>`)
	return err
}
