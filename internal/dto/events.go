package dto

// BatchMailEvent is consumed by the mail service. Partial delivery
// failures are the consumer's concern; the pipeline only publishes.
type BatchMailEvent struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	HTMLBody   string   `json:"html_body"`
}

// JobInviteEvent carries the single-use apply link for one eligible,
// document-complete student.
type JobInviteEvent struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	JobID     uint   `json:"job_id"`
	JobTitle  string `json:"job_title"`
	ApplyLink string `json:"apply_link"`
}

// ProfileIncompleteEvent tells an eligible student which documents block
// their apply link.
type ProfileIncompleteEvent struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	JobTitle string   `json:"job_title"`
	Missing  []string `json:"missing"`
}
