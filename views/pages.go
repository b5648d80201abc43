package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/lavandercats/cattery"
	"github.com/lavandercats/cattery/markdown"
)

func (r *Renderer) Home(cats []cattery.CatView, articles []cattery.Article) templ.Component {
	meta := cattery.PageMeta{URL: cattery.BuildURL(r.Config.URL)}
	return r.layout(meta, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="hero"><h1>`+esc(r.Config.Name)+`</h1><p>`+esc(r.Config.Description)+`</p></section><section class="cats-preview"><h2>Our Cats</h2><div class="cat-grid">`); err != nil {
			return err
		}
		for _, cat := range cats {
			if err := catCard(w, cat); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div></section><section class="news-preview"><h2>Latest News</h2><ul class="article-list">`); err != nil {
			return err
		}
		for _, art := range articles {
			if _, err := io.WriteString(w, `<li><a href="/news/`+itoa(art.ID)+`/">`+esc(art.Title)+`</a><time>`+esc(art.CreatedAt)+`</time></li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	})
}

func (r *Renderer) Cats(cats []cattery.CatView) templ.Component {
	meta := cattery.PageMeta{Title: "Our Cats", URL: cattery.BuildURL(r.Config.URL, "cats")}
	return r.layout(meta, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Our Cats</h1><div class="cat-grid">`); err != nil {
			return err
		}
		for _, cat := range cats {
			if err := catCard(w, cat); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func (r *Renderer) Cat(cat cattery.CatView) templ.Component {
	meta := cattery.PageMeta{
		Title:       cat.Name,
		Description: cat.Bio,
		URL:         cattery.BuildURL(r.Config.URL, "cats", itoa(cat.ID)),
	}
	return r.layout(meta, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<article class="cat-profile"><h1>`+esc(cat.Name)+`</h1>`); err != nil {
			return err
		}
		if cat.PhotoURL != "" {
			if _, err := io.WriteString(w, `<img class="cat-photo" src="`+esc(cat.PhotoURL)+`" alt="`+esc(cat.Name)+`"/>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<dl><dt>Role</dt><dd>`+esc(cat.Role)+`</dd>`); err != nil {
			return err
		}
		if cat.Breed != "" {
			if _, err := io.WriteString(w, `<dt>Breed</dt><dd>`+esc(cat.Breed)+`</dd>`); err != nil {
				return err
			}
		}
		if cat.Award != "" {
			if _, err := io.WriteString(w, `<dt>Awards</dt><dd>`+esc(cat.Award)+`</dd>`); err != nil {
				return err
			}
		}
		vaccinated := "No"
		if cat.RabiesVaccinated {
			vaccinated = "Yes"
		}
		if _, err := io.WriteString(w, `<dt>Rabies vaccinated</dt><dd>`+vaccinated+`</dd></dl>`); err != nil {
			return err
		}
		if cat.Bio != "" {
			if _, err := io.WriteString(w, `<div class="cat-bio">`); err != nil {
				return err
			}
			if err := markdown.Markdown(cat.Bio).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}

func (r *Renderer) Articles(articles []cattery.Article) templ.Component {
	meta := cattery.PageMeta{Title: "News", URL: cattery.BuildURL(r.Config.URL, "news")}
	return r.layout(meta, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>News</h1><ul class="article-list">`); err != nil {
			return err
		}
		for _, art := range articles {
			if _, err := io.WriteString(w, `<li><a href="/news/`+itoa(art.ID)+`/">`+esc(art.Title)+`</a><time>`+esc(art.CreatedAt)+`</time></li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}

func (r *Renderer) Article(article cattery.Article, gallery []cattery.GalleryImage) templ.Component {
	meta := cattery.PageMeta{
		Title:  article.Title,
		URL:    cattery.BuildURL(r.Config.URL, "news", itoa(article.ID)),
		OGType: "article",
	}
	return r.layout(meta, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<script type="application/ld+json">`+cattery.ArticleJsonLD(article, r.Config)+`</script>`+
			`<article class="news-article"><h1>`+esc(article.Title)+`</h1><p class="byline">`+esc(article.Author)+` · <time>`+esc(article.CreatedAt)+`</time></p>`); err != nil {
			return err
		}
		if err := markdown.Markdown(article.Content).Render(ctx, w); err != nil {
			return err
		}
		if len(gallery) > 0 {
			if _, err := io.WriteString(w, `<div class="gallery">`); err != nil {
				return err
			}
			for _, img := range gallery {
				if _, err := io.WriteString(w, `<figure><a href="`+esc(img.URL)+`"><img src="`+esc(img.ThumbURL)+`" alt="`+esc(img.Caption)+`" loading="lazy"/></a>`); err != nil {
					return err
				}
				if img.Caption != "" {
					if _, err := io.WriteString(w, `<figcaption>`+esc(img.Caption)+`</figcaption>`); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `</figure>`); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}

func (r *Renderer) AdoptionForm(questions []cattery.AdoptionQuestion, csrfToken string) templ.Component {
	meta := cattery.PageMeta{Title: "Adoption", URL: cattery.BuildURL(r.Config.URL, "adopt")}
	return r.layout(meta, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Adoption Request</h1><form id="adoption-form" method="post" action="/api/adoption/submit">`+
			`<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`"/>`+
			`<label>Name <input name="customer_name" required/></label>`+
			`<label>Email <input type="email" name="customer_email" required/></label>`+
			`<label>Phone <input name="phone"/></label>`+
			`<label>Litter code <input name="litter_code"/></label>`); err != nil {
			return err
		}
		for _, q := range questions {
			name := `answers[` + itoa(q.ID) + `]`
			required := ""
			if q.Required {
				required = " required"
			}
			switch q.Type {
			case "checkbox":
				if _, err := io.WriteString(w, `<label><input type="checkbox" name="`+name+`" value="yes"`+required+`/> `+esc(q.Text)+`</label>`); err != nil {
					return err
				}
			case "select":
				if _, err := io.WriteString(w, `<label>`+esc(q.Text)+` <select name="`+name+`"`+required+`>`); err != nil {
					return err
				}
				for _, opt := range q.Options {
					if _, err := io.WriteString(w, `<option value="`+esc(opt)+`">`+esc(opt)+`</option>`); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `</select></label>`); err != nil {
					return err
				}
			default:
				if _, err := io.WriteString(w, `<label>`+esc(q.Text)+` <input name="`+name+`"`+required+`/></label>`); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, `<label><input type="checkbox" name="terms_agreed" value="yes" required/> I agree to the terms of the sales contract</label>`+
			`<label><input type="checkbox" name="privacy_consent" value="yes" required/> I consent to the processing of my data</label>`+
			`<label><input type="checkbox" name="subscription" value="yes"/> Keep me posted about new litters</label>`+
			`<button type="submit">Send request</button></form>`)
		return err
	})
}

func (r *Renderer) NotFound() templ.Component {
	return r.layout(cattery.PageMeta{Title: "Not Found"}, func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Page not found</h1><p><a href="/">Back to the front page</a></p>`)
		return err
	})
}

func (r *Renderer) ServerError() templ.Component {
	return r.layout(cattery.PageMeta{Title: "Error"}, func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>Something went wrong</h1><p>Please try again later.</p>`)
		return err
	})
}
