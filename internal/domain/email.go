package domain

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
)

var ErrEmailRenderFailed = errors.New("email render failed")

var emailTmpl = template.Must(template.New("email").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2196F3;">{{.Brand}} Message</h2>
  <p><strong>From:</strong> {{.SenderName}}</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <hr style="border: 1px solid #eee;">
  <p>{{.Content}}</p>
  <hr style="border: 1px solid #eee;">
  <p style="font-size: 12px; color: #666;">
    This message was sent through the {{.Brand}} platform.
    Reply directly to this email or log in to the platform to respond.
  </p>
</div>
`))

type emailView struct {
	Brand      string
	SenderName string
	Subject    string
	Content    template.HTML
}

// RenderHTML wraps the content in the fixed message layout. Every field is
// escaped; newlines in content become <br>.
func RenderHTML(brand, senderName, subject, content string) (string, error) {
	view := emailView{
		Brand:      brand,
		SenderName: senderName,
		Subject:    subject,
		Content:    template.HTML(lineBreaks(template.HTMLEscapeString(content))),
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmailRenderFailed, err)
	}
	return buf.String(), nil
}

func lineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// NewEmailMessage builds the two-part message for a function-style email
// request. The plain body is the content verbatim.
func NewEmailMessage(req NotificationRequest, defaultSender Address, brand string) (*EmailMessage, error) {
	if err := req.ValidateEmail(); err != nil {
		return nil, err
	}

	from := Address{Name: req.SenderName}
	if req.From != "" {
		// ValidateEmail already parsed it once.
		parsed, _ := mail.ParseAddress(req.From)
		from = Address{Name: firstNonEmpty(req.SenderName, parsed.Name), Email: parsed.Address}
	}
	if from.IsZero() {
		from = Address{Name: firstNonEmpty(req.SenderName, defaultSender.Name), Email: defaultSender.Email}
	}
	if from.IsZero() {
		return nil, ErrMissingSender
	}

	html, err := RenderHTML(brand, from.Name, req.Subject, req.Content)
	if err != nil {
		return nil, err
	}

	return &EmailMessage{
		From:    from,
		To:      []string{req.To},
		Subject: req.Subject,
		Text:    req.Content,
		HTML:    html,
	}, nil
}

// NewRelayMessage builds a message from caller-supplied bodies. The HTML
// part falls back to the text body.
func NewRelayMessage(req RelayRequest, defaultSender Address) (*EmailMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	addrs, err := req.Recipients()
	if err != nil {
		return nil, err
	}
	recipients := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr.Name == "" {
			recipients = append(recipients, addr.Address)
			continue
		}
		recipients = append(recipients, addr.String())
	}

	from := defaultSender
	if req.From != "" {
		from = Address{Email: req.From}
	}
	if from.IsZero() {
		return nil, ErrMissingSender
	}

	return &EmailMessage{
		From:    from,
		To:      recipients,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    firstNonEmpty(req.HTML, req.Text),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
