package cattery

import (
	"database/sql"
	"encoding/json"
)

const questionColumns = `id, question_text, question_type, options, is_required, display_order`

func scanQuestion(row interface{ Scan(...any) error }) (AdoptionQuestion, error) {
	var q AdoptionQuestion
	var options string
	var required int
	err := row.Scan(&q.ID, &q.Text, &q.Type, &options, &required, &q.DisplayOrder)
	if err != nil {
		return AdoptionQuestion{}, err
	}
	q.Required = required == 1
	if options != "" {
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return AdoptionQuestion{}, err
		}
	}
	return q, nil
}

func marshalOptions(opts []string) (string, error) {
	if len(opts) == 0 {
		return "", nil
	}
	b, err := json.Marshal(opts)
	return string(b), err
}

// ListQuestions returns the adoption form definition in display order.
func (s *Store) ListQuestions() ([]AdoptionQuestion, error) {
	rows, err := s.db.Query(`SELECT ` + questionColumns + ` FROM adoption_questions ORDER BY display_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []AdoptionQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion returns one form question by id.
func (s *Store) GetQuestion(id int64) (AdoptionQuestion, error) {
	return scanQuestion(s.db.QueryRow(`SELECT `+questionColumns+` FROM adoption_questions WHERE id = ?`, id))
}

// CreateQuestion inserts a form question and fills in its ID.
func (s *Store) CreateQuestion(q *AdoptionQuestion) error {
	options, err := marshalOptions(q.Options)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`INSERT INTO adoption_questions (question_text, question_type, options, is_required, display_order)
		VALUES (?, ?, ?, ?, ?)`,
		q.Text, q.Type, options, boolInt(q.Required), q.DisplayOrder)
	if err != nil {
		return err
	}
	q.ID, err = res.LastInsertId()
	return err
}

// UpdateQuestion rewrites an existing form question.
func (s *Store) UpdateQuestion(q *AdoptionQuestion) error {
	options, err := marshalOptions(q.Options)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE adoption_questions SET question_text = ?, question_type = ?, options = ?, is_required = ?, display_order = ? WHERE id = ?`,
		q.Text, q.Type, options, boolInt(q.Required), q.DisplayOrder, q.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteQuestion removes a form question. Answers already captured keep
// their question-ID keys; the export simply shows the raw key for
// questions that no longer exist.
func (s *Store) DeleteQuestion(id int64) error {
	res, err := s.db.Exec(`DELETE FROM adoption_questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const requestColumns = `id, customer_name, customer_email, phone, litter_code, custom_answers, terms_agreed, privacy_consent, subscription, submitted_at, status, rejection_reason, notification_sent_at`

func scanRequest(row interface{ Scan(...any) error }) (AdoptionRequest, error) {
	var r AdoptionRequest
	var answers string
	var terms, privacy, subscription int
	err := row.Scan(&r.ID, &r.CustomerName, &r.CustomerEmail, &r.Phone, &r.LitterCode, &answers,
		&terms, &privacy, &subscription, &r.SubmittedAt, &r.Status, &r.RejectionReason, &r.NotificationSentAt)
	if err != nil {
		return AdoptionRequest{}, err
	}
	r.TermsAgreed = terms == 1
	r.PrivacyConsent = privacy == 1
	r.Subscription = subscription == 1
	if answers != "" {
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return AdoptionRequest{}, err
		}
	}
	return r, nil
}

// CreateRequest stores a submitted adoption form. Answers are serialized
// as a JSON object keyed by question ID.
func (s *Store) CreateRequest(r *AdoptionRequest) error {
	answers := ""
	if len(r.Answers) > 0 {
		b, err := json.Marshal(r.Answers)
		if err != nil {
			return err
		}
		answers = string(b)
	}
	r.SubmittedAt = now()
	if r.Status == "" {
		r.Status = "pending"
	}
	res, err := s.db.Exec(`INSERT INTO adoption_requests (customer_name, customer_email, phone, litter_code, custom_answers, terms_agreed, privacy_consent, subscription, submitted_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CustomerName, r.CustomerEmail, r.Phone, r.LitterCode, answers,
		boolInt(r.TermsAgreed), boolInt(r.PrivacyConsent), boolInt(r.Subscription), r.SubmittedAt, r.Status)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// ListRequests returns adoption requests newest first.
func (s *Store) ListRequests() ([]AdoptionRequest, error) {
	rows, err := s.db.Query(`SELECT ` + requestColumns + ` FROM adoption_requests ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []AdoptionRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// GetRequest returns one adoption request by id.
func (s *Store) GetRequest(id int64) (AdoptionRequest, error) {
	return scanRequest(s.db.QueryRow(`SELECT `+requestColumns+` FROM adoption_requests WHERE id = ?`, id))
}

// UpdateRequestStatus moves a request through the review workflow. The
// notification timestamp records when the decision was made.
func (s *Store) UpdateRequestStatus(id int64, status, rejectionReason string) error {
	var res sql.Result
	var err error
	if status == "approved" || status == "rejected" {
		res, err = s.db.Exec(`UPDATE adoption_requests SET status = ?, rejection_reason = ?, notification_sent_at = ? WHERE id = ?`,
			status, rejectionReason, now(), id)
	} else {
		res, err = s.db.Exec(`UPDATE adoption_requests SET status = ?, rejection_reason = ? WHERE id = ?`,
			status, rejectionReason, id)
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}
