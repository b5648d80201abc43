package cattery

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

type questionRequest struct {
	Text         string   `json:"question_text"`
	Type         string   `json:"question_type"`
	Options      []string `json:"options"`
	Required     bool     `json:"is_required"`
	DisplayOrder int      `json:"display_order"`
}

type questionResponse struct {
	ID           int64    `json:"id"`
	Text         string   `json:"question_text"`
	Type         string   `json:"question_type"`
	Options      []string `json:"options,omitempty"`
	Required     bool     `json:"is_required"`
	DisplayOrder int      `json:"display_order"`
}

func toQuestionResponse(q AdoptionQuestion) questionResponse {
	return questionResponse{
		ID:           q.ID,
		Text:         q.Text,
		Type:         q.Type,
		Options:      q.Options,
		Required:     q.Required,
		DisplayOrder: q.DisplayOrder,
	}
}

func validQuestionType(t string) bool {
	switch t {
	case "text", "checkbox", "select":
		return true
	}
	return false
}

// handleAdoptionForm returns the current form definition. Public: the
// adoption page's client script reloads it without a session.
func (a *App) handleAdoptionForm(c echo.Context) error {
	questions, err := a.Store.ListQuestions()
	if err != nil {
		return err
	}
	out := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionResponse(q))
	}
	return c.JSON(http.StatusOK, out)
}

type submitRequest struct {
	CustomerName   string            `json:"customer_name"`
	CustomerEmail  string            `json:"customer_email"`
	Phone          string            `json:"phone"`
	LitterCode     string            `json:"litter_code"`
	Answers        map[string]string `json:"answers"`
	TermsAgreed    bool              `json:"terms_agreed"`
	PrivacyConsent bool              `json:"privacy_consent"`
	Subscription   bool              `json:"subscription"`
}

// bindSubmit accepts both the JSON body the admin tooling sends and the
// urlencoded body the plain adoption form posts. Form answers arrive as
// answers[<question id>] fields.
func bindSubmit(c echo.Context) (submitRequest, error) {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationForm) && !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		var req submitRequest
		err := c.Bind(&req)
		return req, err
	}
	params, err := c.FormParams()
	if err != nil {
		return submitRequest{}, err
	}
	req := submitRequest{
		CustomerName:   c.FormValue("customer_name"),
		CustomerEmail:  c.FormValue("customer_email"),
		Phone:          c.FormValue("phone"),
		LitterCode:     c.FormValue("litter_code"),
		TermsAgreed:    c.FormValue("terms_agreed") != "",
		PrivacyConsent: c.FormValue("privacy_consent") != "",
		Subscription:   c.FormValue("subscription") != "",
	}
	for key, vals := range params {
		if len(vals) == 0 {
			continue
		}
		if strings.HasPrefix(key, "answers[") && strings.HasSuffix(key, "]") {
			if req.Answers == nil {
				req.Answers = make(map[string]string)
			}
			req.Answers[key[len("answers["):len(key)-1]] = vals[0]
		}
	}
	return req, nil
}

func (a *App) handleAdoptionSubmit(c echo.Context) error {
	req, err := bindSubmit(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if req.CustomerName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_name is required")
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid customer_email is required")
	}
	if !req.TermsAgreed {
		return echo.NewHTTPError(http.StatusBadRequest, "terms must be agreed")
	}
	if !req.PrivacyConsent {
		return echo.NewHTTPError(http.StatusBadRequest, "privacy consent is required")
	}
	questions, err := a.Store.ListQuestions()
	if err != nil {
		return err
	}
	for _, q := range questions {
		if q.Required && strings.TrimSpace(req.Answers[formatID(q.ID)]) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("question %q requires an answer", q.Text))
		}
	}
	r := AdoptionRequest{
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		Phone:          strings.TrimSpace(req.Phone),
		LitterCode:     strings.TrimSpace(req.LitterCode),
		Answers:        req.Answers,
		TermsAgreed:    req.TermsAgreed,
		PrivacyConsent: req.PrivacyConsent,
		Subscription:   req.Subscription,
	}
	if err := a.Store.CreateRequest(&r); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"id":           r.ID,
		"status":       r.Status,
		"submitted_at": r.SubmittedAt,
	})
}

func (a *App) handleListQuestions(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	return a.handleAdoptionForm(c)
}

func (a *App) handleCreateQuestion(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var req questionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question_text is required")
	}
	if !validQuestionType(req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "question_type must be text, checkbox or select")
	}
	if req.Type == "select" && len(FilterEmpty(req.Options)) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "select questions need options")
	}
	q := AdoptionQuestion{
		Text:         req.Text,
		Type:         req.Type,
		Options:      FilterEmpty(req.Options),
		Required:     req.Required,
		DisplayOrder: req.DisplayOrder,
	}
	if err := a.Store.CreateQuestion(&q); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toQuestionResponse(q))
}

func (a *App) handleGetQuestion(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	q, err := a.Store.GetQuestion(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, toQuestionResponse(q))
}

func (a *App) handleUpdateQuestion(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	q, err := a.Store.GetQuestion(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return err
	}
	var req questionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text != "" {
		q.Text = strings.TrimSpace(req.Text)
	}
	if req.Type != "" {
		if !validQuestionType(req.Type) {
			return echo.NewHTTPError(http.StatusBadRequest, "question_type must be text, checkbox or select")
		}
		q.Type = req.Type
	}
	q.Options = FilterEmpty(req.Options)
	q.Required = req.Required
	q.DisplayOrder = req.DisplayOrder
	if q.Type == "select" && len(q.Options) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "select questions need options")
	}
	if err := a.Store.UpdateQuestion(&q); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQuestionResponse(q))
}

func (a *App) handleDeleteQuestion(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := a.Store.DeleteQuestion(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type requestResponse struct {
	ID                 int64             `json:"id"`
	CustomerName       string            `json:"customer_name"`
	CustomerEmail      string            `json:"customer_email"`
	Phone              string            `json:"phone,omitempty"`
	LitterCode         string            `json:"litter_code,omitempty"`
	Answers            map[string]string `json:"answers,omitempty"`
	TermsAgreed        bool              `json:"terms_agreed"`
	PrivacyConsent     bool              `json:"privacy_consent"`
	Subscription       bool              `json:"subscription"`
	SubmittedAt        string            `json:"submitted_at"`
	Status             string            `json:"status"`
	RejectionReason    string            `json:"rejection_reason,omitempty"`
	NotificationSentAt string            `json:"notification_sent_at,omitempty"`
}

func toRequestResponse(r AdoptionRequest) requestResponse {
	return requestResponse{
		ID:                 r.ID,
		CustomerName:       r.CustomerName,
		CustomerEmail:      r.CustomerEmail,
		Phone:              r.Phone,
		LitterCode:         r.LitterCode,
		Answers:            r.Answers,
		TermsAgreed:        r.TermsAgreed,
		PrivacyConsent:     r.PrivacyConsent,
		Subscription:       r.Subscription,
		SubmittedAt:        r.SubmittedAt,
		Status:             r.Status,
		RejectionReason:    r.RejectionReason,
		NotificationSentAt: r.NotificationSentAt,
	}
}

func (a *App) handleListRequests(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	requests, err := a.Store.ListRequests()
	if err != nil {
		return err
	}
	status := c.QueryParam("status")
	out := make([]requestResponse, 0, len(requests))
	for _, r := range requests {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, toRequestResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleGetRequest(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := a.Store.GetRequest(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "request not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(r))
}

type statusUpdateRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

func (a *App) handleUpdateRequestStatus(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	switch req.Status {
	case "pending", "approved", "rejected":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "status must be pending, approved or rejected")
	}
	if req.Status == "rejected" && strings.TrimSpace(req.RejectionReason) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "rejection_reason is required when rejecting")
	}
	if err := a.Store.UpdateRequestStatus(id, req.Status, req.RejectionReason); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "request not found")
		}
		return err
	}
	r, err := a.Store.GetRequest(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(r))
}

// handleExportRequests streams every adoption request as CSV. Answer
// columns carry the question text where the question still exists, and
// the raw question-ID key otherwise.
func (a *App) handleExportRequests(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	requests, err := a.Store.ListRequests()
	if err != nil {
		return err
	}
	questions, err := a.Store.ListQuestions()
	if err != nil {
		return err
	}
	questionText := make(map[string]string, len(questions))
	var questionKeys []string
	for _, q := range questions {
		key := formatID(q.ID)
		questionText[key] = q.Text
		questionKeys = append(questionKeys, key)
	}
	// Pick up answer keys for since-deleted questions too.
	seen := make(map[string]bool, len(questionKeys))
	for _, k := range questionKeys {
		seen[k] = true
	}
	var extraKeys []string
	for _, r := range requests {
		for k := range r.Answers {
			if !seen[k] {
				seen[k] = true
				extraKeys = append(extraKeys, k)
			}
		}
	}
	sort.Strings(extraKeys)
	answerKeys := append(questionKeys, extraKeys...)

	header := []string{"ID", "Customer Name", "Email", "Phone", "Litter Code", "Status", "Submitted At", "Terms Agreed", "Privacy Consent", "Subscription", "Rejection Reason", "Notification Sent At"}
	for _, k := range answerKeys {
		if text, ok := questionText[k]; ok {
			header = append(header, text)
		} else {
			header = append(header, k)
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="adoption_requests.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response().Writer)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range requests {
		row := []string{
			formatID(r.ID),
			r.CustomerName,
			r.CustomerEmail,
			r.Phone,
			r.LitterCode,
			r.Status,
			r.SubmittedAt,
			yesNo(r.TermsAgreed),
			yesNo(r.PrivacyConsent),
			yesNo(r.Subscription),
			r.RejectionReason,
			r.NotificationSentAt,
		}
		for _, k := range answerKeys {
			row = append(row, r.Answers[k])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
