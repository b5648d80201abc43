package cattery

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_cattery.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetCat(t *testing.T) {
	s := setupTestStore(t)

	cat := Cat{
		Name:             "Aurora",
		Role:             "queen",
		Breed:            "Ragdoll",
		Bio:              "Gentle and playful.",
		PhotoPath:        "uploads/cats/aurora_full.jpg",
		ThumbnailPath:    "uploads/thumbnails/aurora_thumb.jpg",
		PhotoInline:      "data:image/jpeg;base64,AAAA",
		RabiesVaccinated: true,
		Award:            "Best in Show 2025",
	}
	if err := s.CreateCat(&cat); err != nil {
		t.Fatalf("CreateCat failed: %v", err)
	}
	if cat.ID == 0 {
		t.Fatal("CreateCat should assign an ID")
	}
	if cat.CreatedAt == "" {
		t.Error("CreateCat should set CreatedAt")
	}

	got, err := s.GetCat(cat.ID)
	if err != nil {
		t.Fatalf("GetCat failed: %v", err)
	}
	if got.Name != cat.Name {
		t.Errorf("Name = %q, want %q", got.Name, cat.Name)
	}
	if got.Role != cat.Role {
		t.Errorf("Role = %q, want %q", got.Role, cat.Role)
	}
	if got.PhotoInline != cat.PhotoInline {
		t.Errorf("PhotoInline = %q, want %q", got.PhotoInline, cat.PhotoInline)
	}
	if !got.RabiesVaccinated {
		t.Error("RabiesVaccinated should be true")
	}
}

func TestUpdateCat(t *testing.T) {
	s := setupTestStore(t)

	cat := Cat{Name: "Felix", Role: "king"}
	if err := s.CreateCat(&cat); err != nil {
		t.Fatalf("CreateCat failed: %v", err)
	}

	cat.Name = "Felix II"
	cat.Award = "Champion"
	if err := s.UpdateCat(&cat); err != nil {
		t.Fatalf("UpdateCat failed: %v", err)
	}

	got, err := s.GetCat(cat.ID)
	if err != nil {
		t.Fatalf("GetCat failed: %v", err)
	}
	if got.Name != "Felix II" {
		t.Errorf("Name = %q, want %q", got.Name, "Felix II")
	}
	if got.Award != "Champion" {
		t.Errorf("Award = %q, want %q", got.Award, "Champion")
	}
	if got.UpdatedAt == "" {
		t.Error("UpdateCat should set UpdatedAt")
	}
}

func TestUpdateCatInline(t *testing.T) {
	s := setupTestStore(t)

	cat := Cat{Name: "Luna", Role: "kitten", PhotoPath: "uploads/cats/luna_full.jpg"}
	if err := s.CreateCat(&cat); err != nil {
		t.Fatalf("CreateCat failed: %v", err)
	}

	missing, err := s.catsMissingInline()
	if err != nil {
		t.Fatalf("catsMissingInline failed: %v", err)
	}
	if len(missing) != 1 || missing[0].ID != cat.ID {
		t.Fatalf("catsMissingInline = %v, want the legacy row", missing)
	}

	if err := s.UpdateCatInline(cat.ID, "data:image/jpeg;base64,BBBB"); err != nil {
		t.Fatalf("UpdateCatInline failed: %v", err)
	}
	missing, err = s.catsMissingInline()
	if err != nil {
		t.Fatalf("catsMissingInline failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("backfilled cat should no longer be listed, got %v", missing)
	}
}

func TestListCatsByRole(t *testing.T) {
	s := setupTestStore(t)

	for _, cat := range []Cat{
		{Name: "Felix", Role: "king"},
		{Name: "Aurora", Role: "queen"},
		{Name: "Bella", Role: "queen"},
		{Name: "Milo", Role: "kitten"},
	} {
		c := cat
		if err := s.CreateCat(&c); err != nil {
			t.Fatalf("CreateCat failed: %v", err)
		}
	}

	queens, err := s.ListCats("queen")
	if err != nil {
		t.Fatalf("ListCats failed: %v", err)
	}
	if len(queens) != 2 {
		t.Errorf("ListCats(queen) count = %d, want 2", len(queens))
	}
	// Ordered by name
	if queens[0].Name != "Aurora" {
		t.Errorf("first queen = %q, want Aurora", queens[0].Name)
	}

	all, err := s.ListCats("")
	if err != nil {
		t.Fatalf("ListCats failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("ListCats(all) count = %d, want 4", len(all))
	}
}

func TestGetCatNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetCat(12345)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCat(t *testing.T) {
	s := setupTestStore(t)

	cat := Cat{Name: "Ghost", Role: "king"}
	if err := s.CreateCat(&cat); err != nil {
		t.Fatalf("CreateCat failed: %v", err)
	}
	if err := s.DeleteCat(cat.ID); err != nil {
		t.Fatalf("DeleteCat failed: %v", err)
	}
	if _, err := s.GetCat(cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cat should be gone, got err: %v", err)
	}
	if err := s.DeleteCat(cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing cat should return ErrNotFound, got %v", err)
	}
}

func TestListArticlesPublishedFilter(t *testing.T) {
	s := setupTestStore(t)

	for _, art := range []Article{
		{Title: "Published Post", Content: "c1", Published: true},
		{Title: "Draft Post", Content: "c2", Published: false},
	} {
		a := art
		if err := s.CreateArticle(&a); err != nil {
			t.Fatalf("CreateArticle failed: %v", err)
		}
	}

	published, err := s.ListArticles(true)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(published) != 1 || published[0].Title != "Published Post" {
		t.Errorf("ListArticles(true) = %v, want only the published post", published)
	}

	all, err := s.ListArticles(false)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListArticles(false) count = %d, want 2", len(all))
	}
}

func TestCreateArticleDefaultAuthor(t *testing.T) {
	s := setupTestStore(t)

	art := Article{Title: "No Author", Content: "c"}
	if err := s.CreateArticle(&art); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	got, err := s.GetArticle(art.ID)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Author != "Admin" {
		t.Errorf("Author = %q, want Admin", got.Author)
	}
}

func TestGalleryCascadeOnArticleDelete(t *testing.T) {
	s := setupTestStore(t)

	art := Article{Title: "With Gallery", Content: "c", Published: true}
	if err := s.CreateArticle(&art); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		img := ArticleImage{ArticleID: art.ID, Inline: "data:image/jpeg;base64,AAAA", DisplayOrder: i}
		if err := s.AddArticleImage(&img); err != nil {
			t.Fatalf("AddArticleImage failed: %v", err)
		}
	}

	if err := s.DeleteArticle(art.ID); err != nil {
		t.Fatalf("DeleteArticle failed: %v", err)
	}
	imgs, err := s.ListArticleImages(art.ID)
	if err != nil {
		t.Fatalf("ListArticleImages failed: %v", err)
	}
	if len(imgs) != 0 {
		t.Errorf("gallery should cascade with the article, got %d rows", len(imgs))
	}
}

func TestArticleImagesOrderedForDisplay(t *testing.T) {
	s := setupTestStore(t)

	art := Article{Title: "Ordered", Content: "c"}
	if err := s.CreateArticle(&art); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	for _, order := range []int{2, 0, 1} {
		img := ArticleImage{ArticleID: art.ID, Inline: "x", DisplayOrder: order}
		if err := s.AddArticleImage(&img); err != nil {
			t.Fatalf("AddArticleImage failed: %v", err)
		}
	}

	imgs, err := s.ListArticleImages(art.ID)
	if err != nil {
		t.Fatalf("ListArticleImages failed: %v", err)
	}
	for i, img := range imgs {
		if img.DisplayOrder != i {
			t.Errorf("imgs[%d].DisplayOrder = %d, want %d", i, img.DisplayOrder, i)
		}
	}
}

func TestClearArticleImagesReturnsRows(t *testing.T) {
	s := setupTestStore(t)

	art := Article{Title: "Clearable", Content: "c"}
	if err := s.CreateArticle(&art); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	img := ArticleImage{ArticleID: art.ID, ImagePath: "uploads/articles/a_full.jpg", ThumbnailPath: "uploads/thumbnails/a_thumb.jpg"}
	if err := s.AddArticleImage(&img); err != nil {
		t.Fatalf("AddArticleImage failed: %v", err)
	}

	removed, err := s.ClearArticleImages(art.ID)
	if err != nil {
		t.Fatalf("ClearArticleImages failed: %v", err)
	}
	if len(removed) != 1 || removed[0].ImagePath != img.ImagePath {
		t.Errorf("ClearArticleImages = %v, want the deleted row back", removed)
	}
	imgs, err := s.ListArticleImages(art.ID)
	if err != nil {
		t.Fatalf("ListArticleImages failed: %v", err)
	}
	if len(imgs) != 0 {
		t.Errorf("gallery should be empty after clear, got %d rows", len(imgs))
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	q := AdoptionQuestion{
		Text:         "Do you have other pets?",
		Type:         "select",
		Options:      []string{"yes", "no"},
		Required:     true,
		DisplayOrder: 1,
	}
	if err := s.CreateQuestion(&q); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	got, err := s.GetQuestion(q.ID)
	if err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}
	if got.Text != q.Text || got.Type != "select" || !got.Required {
		t.Errorf("GetQuestion = %+v, want %+v", got, q)
	}
	if len(got.Options) != 2 || got.Options[0] != "yes" {
		t.Errorf("Options = %v, want [yes no]", got.Options)
	}
}

func TestQuestionOrdering(t *testing.T) {
	s := setupTestStore(t)

	for _, order := range []int{3, 1, 2} {
		q := AdoptionQuestion{Text: "q", Type: "text", DisplayOrder: order}
		if err := s.CreateQuestion(&q); err != nil {
			t.Fatalf("CreateQuestion failed: %v", err)
		}
	}

	questions, err := s.ListQuestions()
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	for i := 1; i < len(questions); i++ {
		if questions[i-1].DisplayOrder > questions[i].DisplayOrder {
			t.Errorf("questions out of order: %v", questions)
		}
	}
}

func TestRequestWorkflow(t *testing.T) {
	s := setupTestStore(t)

	r := AdoptionRequest{
		CustomerName:   "Jamie Doe",
		CustomerEmail:  "jamie@example.com",
		Answers:        map[string]string{"1": "a flat with a balcony"},
		TermsAgreed:    true,
		PrivacyConsent: true,
	}
	if err := s.CreateRequest(&r); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if r.Status != "pending" {
		t.Errorf("Status = %q, want pending", r.Status)
	}
	if r.SubmittedAt == "" {
		t.Error("SubmittedAt should be set")
	}

	got, err := s.GetRequest(r.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if got.Answers["1"] != "a flat with a balcony" {
		t.Errorf("Answers = %v, want the submitted answer", got.Answers)
	}
	if got.NotificationSentAt != "" {
		t.Errorf("NotificationSentAt should be empty while pending, got %q", got.NotificationSentAt)
	}

	if err := s.UpdateRequestStatus(r.ID, "rejected", "no kittens available"); err != nil {
		t.Fatalf("UpdateRequestStatus failed: %v", err)
	}
	got, err = s.GetRequest(r.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if got.Status != "rejected" {
		t.Errorf("Status = %q, want rejected", got.Status)
	}
	if got.RejectionReason != "no kittens available" {
		t.Errorf("RejectionReason = %q", got.RejectionReason)
	}
	if got.NotificationSentAt == "" {
		t.Error("NotificationSentAt should be set once a decision is made")
	}
}

func TestListRequestsNewestFirst(t *testing.T) {
	s := setupTestStore(t)

	for _, name := range []string{"First", "Second"} {
		r := AdoptionRequest{CustomerName: name, CustomerEmail: name + "@example.com", TermsAgreed: true, PrivacyConsent: true}
		if err := s.CreateRequest(&r); err != nil {
			t.Fatalf("CreateRequest failed: %v", err)
		}
	}

	requests, err := s.ListRequests()
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("ListRequests count = %d, want 2", len(requests))
	}
	if requests[0].CustomerName != "Second" {
		t.Errorf("newest request should come first, got %q", requests[0].CustomerName)
	}
}
