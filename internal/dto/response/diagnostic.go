package response

type EmailConfigReport struct {
	EmailHost         string   `json:"EMAIL_HOST"`
	EmailUser         string   `json:"EMAIL_USER"`
	EmailPass         string   `json:"EMAIL_PASS"`
	EmailPassword     string   `json:"EMAIL_PASSWORD"`
	PasswordAvailable string   `json:"Password_Available"`
	BusinessEmailTo   string   `json:"BUSINESS_EMAIL_TO"`
	Recipients        []string `json:"Recipients"`
	Provider          string   `json:"Provider"`
	Warning           *string  `json:"Warning"`
}

type EmailStep struct {
	Success   bool    `json:"success"`
	Error     *string `json:"error"`
	Details   *string `json:"details,omitempty"`
	Recipient string  `json:"recipient,omitempty"`
}

type EmailTests struct {
	SMTPVerification EmailStep `json:"smtpVerification"`
	EmailSending     EmailStep `json:"emailSending"`
}

type EmailTestResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Config  EmailConfigReport `json:"config"`
	Tests   *EmailTests       `json:"tests,omitempty"`
	Message string            `json:"message,omitempty"`
}

type TokenInfo struct {
	AccessToken    string `json:"access_token"`
	ExpiresIn      int64  `json:"expires_in"`
	ExpiresInHours string `json:"expires_in_hours"`
	ExpiresAt      string `json:"expires_at"`
	SavedToCache   bool   `json:"saved_to_cache"`
	Store          string `json:"store"`
}

type EmailNotification struct {
	Sent      bool    `json:"sent"`
	Error     *string `json:"error"`
	Recipient string  `json:"recipient"`
}

type TokenRefreshResponse struct {
	Success           bool              `json:"success"`
	Message           string            `json:"message"`
	TokenInfo         TokenInfo         `json:"tokenInfo"`
	EmailNotification EmailNotification `json:"emailNotification"`
	Note              string            `json:"note"`
}
