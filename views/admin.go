package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/lavandercats/cattery"
)

func (r *Renderer) AdminLogin(showError bool, csrfToken string) templ.Component {
	return r.layout(cattery.PageMeta{Title: "Admin"}, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Admin Login</h1>`); err != nil {
			return err
		}
		if showError {
			if _, err := io.WriteString(w, `<p class="error">Wrong password.</p>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<form method="post" action="/admin/login/">`+
			`<input type="hidden" name="_csrf" value="`+esc(csrfToken)+`"/>`+
			`<label>Password <input type="password" name="password" autofocus/></label>`+
			`<button type="submit">Log in</button></form>`)
		return err
	})
}

func (r *Renderer) AdminDashboard(data cattery.DashboardData, csrfToken string) templ.Component {
	return r.layout(cattery.PageMeta{Title: "Dashboard"}, func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Dashboard</h1>`); err != nil {
			return err
		}
		if data.Message != "" {
			if _, err := io.WriteString(w, `<p class="flash">`+esc(data.Message)+`</p>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="`+esc(csrfToken)+`"/><button type="submit">Log out</button></form>`); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<section><h2>Cats (`+itoa(int64(len(data.Cats)))+`)</h2><table><thead><tr><th></th><th>Name</th><th>Role</th><th>Breed</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, cat := range data.Cats {
			thumb := ""
			if cat.ThumbURL != "" {
				thumb = `<img class="admin-thumb" src="` + esc(cat.ThumbURL) + `" alt=""/>`
			}
			if _, err := io.WriteString(w, `<tr data-id="`+itoa(cat.ID)+`"><td>`+thumb+`</td><td>`+esc(cat.Name)+`</td><td>`+esc(cat.Role)+`</td><td>`+esc(cat.Breed)+`</td></tr>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody></table></section>`); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<section><h2>Articles (`+itoa(int64(len(data.Articles)))+`)</h2><table><thead><tr><th>Title</th><th>Published</th><th>Created</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, art := range data.Articles {
			published := "draft"
			if art.Published {
				published = "published"
			}
			if _, err := io.WriteString(w, `<tr data-id="`+itoa(art.ID)+`"><td>`+esc(art.Title)+`</td><td>`+published+`</td><td><time>`+esc(art.CreatedAt)+`</time></td></tr>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody></table></section>`); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<section><h2>Adoption Requests (`+itoa(int64(len(data.Requests)))+`)</h2>`+
			`<p><a href="/api/adoption/requests/export">Download CSV</a></p>`+
			`<table><thead><tr><th>Name</th><th>Email</th><th>Litter</th><th>Status</th><th>Submitted</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, req := range data.Requests {
			if _, err := io.WriteString(w, `<tr data-id="`+itoa(req.ID)+`"><td>`+esc(req.CustomerName)+`</td><td>`+esc(req.CustomerEmail)+`</td><td>`+esc(req.LitterCode)+`</td><td>`+esc(req.Status)+`</td><td><time>`+esc(req.SubmittedAt)+`</time></td></tr>`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody></table></section>`); err != nil {
			return err
		}

		_, err := io.WriteString(w, `<script src="`+esc(r.Config.PublicPrefix)+`/admin.js"></script>`)
		return err
	})
}
