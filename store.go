package cattery

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD operations for cats,
// articles, gallery images and adoption data.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of returning SQLITE_BUSY, foreign_keys for the gallery
	// cascade, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS cats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    role TEXT NOT NULL,
    breed TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    photo_path TEXT NOT NULL DEFAULT '',
    thumbnail_path TEXT NOT NULL DEFAULT '',
    photo_inline TEXT NOT NULL DEFAULT '',
    rabies_vaccinated INTEGER NOT NULL DEFAULT 0,
    award TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS articles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT 'Admin',
    featured_image TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS article_images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    image_path TEXT NOT NULL DEFAULT '',
    thumbnail_path TEXT NOT NULL DEFAULT '',
    inline_image TEXT NOT NULL DEFAULT '',
    caption TEXT NOT NULL DEFAULT '',
    display_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS adoption_questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_text TEXT NOT NULL,
    question_type TEXT NOT NULL,
    options TEXT NOT NULL DEFAULT '',
    is_required INTEGER NOT NULL DEFAULT 1,
    display_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS adoption_requests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_name TEXT NOT NULL,
    customer_email TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    litter_code TEXT NOT NULL DEFAULT '',
    custom_answers TEXT NOT NULL DEFAULT '',
    terms_agreed INTEGER NOT NULL DEFAULT 0,
    privacy_consent INTEGER NOT NULL DEFAULT 0,
    subscription INTEGER NOT NULL DEFAULT 0,
    submitted_at TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    rejection_reason TEXT NOT NULL DEFAULT '',
    notification_sent_at TEXT NOT NULL DEFAULT ''
);
`)
	if err != nil {
		return err
	}
	// Columns added after the first deployed schema generation.
	for _, stmt := range []string{
		`ALTER TABLE cats ADD COLUMN photo_inline TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE article_images ADD COLUMN inline_image TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE adoption_requests ADD COLUMN litter_code TEXT NOT NULL DEFAULT '';`,
	} {
		if err := s.addColumn(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) addColumn(stmt string) error {
	if _, err := s.db.Exec(stmt); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return nil
		}
		return err
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

const catColumns = `id, name, role, breed, bio, photo_path, thumbnail_path, photo_inline, rabies_vaccinated, award, created_at, updated_at`

func scanCat(row interface{ Scan(...any) error }) (Cat, error) {
	var c Cat
	var vaccinated int
	err := row.Scan(&c.ID, &c.Name, &c.Role, &c.Breed, &c.Bio, &c.PhotoPath, &c.ThumbnailPath,
		&c.PhotoInline, &vaccinated, &c.Award, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Cat{}, err
	}
	c.RabiesVaccinated = vaccinated == 1
	return c, nil
}

// ListCats returns all cats, optionally filtered by role, ordered by name.
func (s *Store) ListCats(role string) ([]Cat, error) {
	var rows *sql.Rows
	var err error
	if role == "" {
		rows, err = s.db.Query(`SELECT ` + catColumns + ` FROM cats ORDER BY name`)
	} else {
		rows, err = s.db.Query(`SELECT `+catColumns+` FROM cats WHERE role = ? ORDER BY name`, role)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Cat
	for rows.Next() {
		c, err := scanCat(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetCat returns a single cat by id.
func (s *Store) GetCat(id int64) (Cat, error) {
	return scanCat(s.db.QueryRow(`SELECT `+catColumns+` FROM cats WHERE id = ?`, id))
}

// CreateCat inserts a cat and fills in its ID and CreatedAt.
func (s *Store) CreateCat(c *Cat) error {
	c.CreatedAt = now()
	res, err := s.db.Exec(`INSERT INTO cats (name, role, breed, bio, photo_path, thumbnail_path, photo_inline, rabies_vaccinated, award, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Role, c.Breed, c.Bio, c.PhotoPath, c.ThumbnailPath, c.PhotoInline, boolInt(c.RabiesVaccinated), c.Award, c.CreatedAt)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// UpdateCat rewrites every mutable field of an existing cat.
func (s *Store) UpdateCat(c *Cat) error {
	c.UpdatedAt = now()
	res, err := s.db.Exec(`UPDATE cats SET name = ?, role = ?, breed = ?, bio = ?, photo_path = ?, thumbnail_path = ?, photo_inline = ?, rabies_vaccinated = ?, award = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Role, c.Breed, c.Bio, c.PhotoPath, c.ThumbnailPath, c.PhotoInline, boolInt(c.RabiesVaccinated), c.Award, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateCatInline backfills the inline photo of a legacy path-only row.
func (s *Store) UpdateCatInline(id int64, inline string) error {
	res, err := s.db.Exec(`UPDATE cats SET photo_inline = ?, updated_at = ? WHERE id = ?`, inline, now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteCat removes a cat by id.
func (s *Store) DeleteCat(id int64) error {
	res, err := s.db.Exec(`DELETE FROM cats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const articleColumns = `id, title, content, author, featured_image, published, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (Article, error) {
	var a Article
	var published int
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Author, &a.FeaturedImage, &published, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Article{}, err
	}
	a.Published = published == 1
	return a, nil
}

// ListArticles returns articles newest first. If publishedOnly is set,
// drafts are excluded.
func (s *Store) ListArticles(publishedOnly bool) ([]Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC`
	if publishedOnly {
		q = `SELECT ` + articleColumns + ` FROM articles WHERE published = 1 ORDER BY created_at DESC`
	}
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticle returns a single article by id.
func (s *Store) GetArticle(id int64) (Article, error) {
	return scanArticle(s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id))
}

// CreateArticle inserts an article and fills in its ID and CreatedAt.
func (s *Store) CreateArticle(a *Article) error {
	if a.Author == "" {
		a.Author = "Admin"
	}
	a.CreatedAt = now()
	res, err := s.db.Exec(`INSERT INTO articles (title, content, author, featured_image, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Title, a.Content, a.Author, a.FeaturedImage, boolInt(a.Published), a.CreatedAt)
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

// UpdateArticle rewrites every mutable field of an existing article.
func (s *Store) UpdateArticle(a *Article) error {
	a.UpdatedAt = now()
	res, err := s.db.Exec(`UPDATE articles SET title = ?, content = ?, author = ?, featured_image = ?, published = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Content, a.Author, a.FeaturedImage, boolInt(a.Published), a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteArticle removes an article; its gallery rows go with it via the
// foreign key cascade. Callers fetch the gallery first if they need to
// remove on-disk artifacts.
func (s *Store) DeleteArticle(id int64) error {
	res, err := s.db.Exec(`DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const imageColumns = `id, article_id, image_path, thumbnail_path, inline_image, caption, display_order`

func scanArticleImage(row interface{ Scan(...any) error }) (ArticleImage, error) {
	var img ArticleImage
	err := row.Scan(&img.ID, &img.ArticleID, &img.ImagePath, &img.ThumbnailPath, &img.Inline, &img.Caption, &img.DisplayOrder)
	return img, err
}

// ListArticleImages returns an article's gallery ordered for display.
func (s *Store) ListArticleImages(articleID int64) ([]ArticleImage, error) {
	rows, err := s.db.Query(`SELECT `+imageColumns+` FROM article_images WHERE article_id = ? ORDER BY display_order, id`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imgs []ArticleImage
	for rows.Next() {
		img, err := scanArticleImage(rows)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

// AddArticleImage inserts a gallery entry and fills in its ID.
func (s *Store) AddArticleImage(img *ArticleImage) error {
	res, err := s.db.Exec(`INSERT INTO article_images (article_id, image_path, thumbnail_path, inline_image, caption, display_order)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.ArticleID, img.ImagePath, img.ThumbnailPath, img.Inline, img.Caption, img.DisplayOrder)
	if err != nil {
		return err
	}
	img.ID, err = res.LastInsertId()
	return err
}

// GetArticleImage returns one gallery entry scoped to its article.
func (s *Store) GetArticleImage(articleID, imageID int64) (ArticleImage, error) {
	return scanArticleImage(s.db.QueryRow(`SELECT `+imageColumns+` FROM article_images WHERE id = ? AND article_id = ?`, imageID, articleID))
}

// DeleteArticleImage removes one gallery entry scoped to its article.
func (s *Store) DeleteArticleImage(articleID, imageID int64) error {
	res, err := s.db.Exec(`DELETE FROM article_images WHERE id = ? AND article_id = ?`, imageID, articleID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ClearArticleImages removes an article's whole gallery and returns the
// deleted rows so the caller can remove on-disk artifacts.
func (s *Store) ClearArticleImages(articleID int64) ([]ArticleImage, error) {
	imgs, err := s.ListArticleImages(articleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(`DELETE FROM article_images WHERE article_id = ?`, articleID); err != nil {
		return nil, err
	}
	return imgs, nil
}

// UpdateArticleImageInline backfills the inline copy of a gallery entry.
func (s *Store) UpdateArticleImageInline(id int64, inline string) error {
	res, err := s.db.Exec(`UPDATE article_images SET inline_image = ? WHERE id = ?`, inline, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// catsMissingInline lists cats that still have only the legacy
// filesystem representation, for the one-time backfill.
func (s *Store) catsMissingInline() ([]Cat, error) {
	rows, err := s.db.Query(`SELECT ` + catColumns + ` FROM cats WHERE photo_inline = '' AND photo_path != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Cat
	for rows.Next() {
		c, err := scanCat(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// articleImagesMissingInline is catsMissingInline for gallery entries.
func (s *Store) articleImagesMissingInline() ([]ArticleImage, error) {
	rows, err := s.db.Query(`SELECT ` + imageColumns + ` FROM article_images WHERE inline_image = '' AND image_path != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imgs []ArticleImage
	for rows.Next() {
		img, err := scanArticleImage(rows)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}
