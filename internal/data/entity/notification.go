package entity

// EmailResult is the outcome of one confirmation mail.
type EmailResult struct {
	Success   bool   `json:"success"`
	Attempted *bool  `json:"attempted,omitempty"`
	Error     string `json:"error,omitempty"`
}

type RecipientResult struct {
	To      string `json:"to"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BusinessEmailResult struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Recipients []RecipientResult `json:"recipients,omitempty"`
}

type EmailDetails struct {
	Customer EmailResult         `json:"customer"`
	Business BusinessEmailResult `json:"business"`
}

// RelayDetails reports a spreadsheet write, either through the Apps Script relay or the Sheets API.
type RelayDetails struct {
	Attempted bool   `json:"attempted"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Tab       string `json:"tab,omitempty"`
	Message   string `json:"message,omitempty"`
}

type ChatRecipientResult struct {
	UserID  string `json:"userId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ChatDetails struct {
	Attempted bool                  `json:"attempted"`
	Results   []ChatRecipientResult `json:"results,omitempty"`
	Sent      int                   `json:"sent"`
	Failed    int                   `json:"failed"`
	Error     string                `json:"error,omitempty"`
}

// Success reports whether at least one admin received the message.
func (c *ChatDetails) Success() bool {
	return c.Sent > 0
}

func Bool(v bool) *bool { return &v }
