package cattery

// Cat is a breeding cat or kitten presented on the site.
type Cat struct {
	ID               int64
	Name             string
	Role             string // "king", "queen" or "kitten"
	Breed            string
	Bio              string
	PhotoPath        string // static-relative path of the full variant, legacy storage
	ThumbnailPath    string // static-relative path of the thumbnail, legacy storage
	PhotoInline      string // inline-encoded photo, current storage
	RabiesVaccinated bool
	Award            string
	CreatedAt        string
	UpdatedAt        string
}

// Article is a news post, optionally carrying an image gallery.
type Article struct {
	ID            int64
	Title         string
	Content       string
	Author        string
	FeaturedImage string
	Published     bool
	CreatedAt     string
	UpdatedAt     string
}

// ArticleImage is one gallery entry belonging to an article.
type ArticleImage struct {
	ID            int64
	ArticleID     int64
	ImagePath     string
	ThumbnailPath string
	Inline        string
	Caption       string
	DisplayOrder  int
}

// AdoptionQuestion defines one entry of the dynamic adoption form.
// Question definitions drive the generic answer capture: answers are
// stored keyed by question ID, so questions can change without schema
// changes.
type AdoptionQuestion struct {
	ID           int64
	Text         string
	Type         string // "text", "checkbox" or "select"
	Options      []string
	Required     bool
	DisplayOrder int
}

// AdoptionRequest captures one submitted adoption form.
type AdoptionRequest struct {
	ID                 int64
	CustomerName       string
	CustomerEmail      string
	Phone              string
	LitterCode         string
	Answers            map[string]string // keyed by question ID
	TermsAgreed        bool
	PrivacyConsent     bool
	Subscription       bool
	SubmittedAt        string
	Status             string // "pending", "approved" or "rejected"
	RejectionReason    string
	NotificationSentAt string
}

// CatView is a Cat with display-ready image references for templates.
type CatView struct {
	Cat
	PhotoURL string
	ThumbURL string
}

// GalleryImage is an ArticleImage with display-ready references.
type GalleryImage struct {
	ArticleImage
	URL      string
	ThumbURL string
}

// DashboardData bundles everything the admin dashboard template renders.
type DashboardData struct {
	Cats     []CatView
	Articles []Article
	Requests []AdoptionRequest
	Message  string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
