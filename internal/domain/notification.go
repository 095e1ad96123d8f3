package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// phoneRegex accepts the punctuation people type around digits; the gateway
// does the real number parsing.
var phoneRegex = regexp.MustCompile(`^\+?[0-9(][0-9 ()\-.]{5,19}$`)

// NotificationRequest is the payload accepted by the function-style entry
// points. It lives for a single dispatch and is never stored.
type NotificationRequest struct {
	To         string
	From       string
	SenderName string
	Subject    string
	Content    string
}

// RelayRequest is the payload of the raw mail relay endpoint, where the
// caller supplies the bodies instead of having them rendered.
type RelayRequest struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

func (a Address) IsZero() bool {
	return a.Email == ""
}

type EmailMessage struct {
	From    Address
	To      []string
	Subject string
	Text    string
	HTML    string
}

type SMSMessage struct {
	Phone string
	Body  string
}

// DispatchEvent describes one finished dispatch attempt for observers.
type DispatchEvent struct {
	Channel   Channel
	Recipient string
	Result    Result
	Latency   time.Duration
}

func (r NotificationRequest) ValidateEmail() error {
	if err := validateRecipient(ChannelEmail, r.To); err != nil {
		return err
	}
	if r.Content == "" {
		return ErrEmptyContent
	}
	if r.From != "" {
		if _, err := mail.ParseAddress(r.From); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidSender, r.From)
		}
	}
	return nil
}

func (r NotificationRequest) ValidateSMS() error {
	if err := validateRecipient(ChannelSMS, r.To); err != nil {
		return err
	}
	if r.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// SMSBody prefixes the content with the sender identifier when one is given.
func (r NotificationRequest) SMSBody() string {
	if r.From == "" {
		return r.Content
	}
	return r.From + ": " + r.Content
}

// Validate reports the fields the relay endpoint refuses to go without.
func (r RelayRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.To) == "" {
		missing = append(missing, "to")
	}
	if r.Subject == "" {
		missing = append(missing, "subject")
	}
	if r.Text == "" && r.HTML == "" {
		missing = append(missing, "text or html")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// Recipients parses the RFC 5322 address list in To, so display names and
// quoted names containing commas survive.
func (r RelayRequest) Recipients() ([]*mail.Address, error) {
	addrs, err := mail.ParseAddressList(r.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRecipient, r.To, err)
	}
	return addrs, nil
}

func validateRecipient(ch Channel, recipient string) error {
	if recipient == "" {
		return ErrEmptyRecipient
	}

	switch ch {
	case ChannelSMS:
		if !phoneRegex.MatchString(recipient) {
			return fmt.Errorf("%w: must be a phone number", ErrInvalidRecipient)
		}
	case ChannelEmail:
		if _, err := mail.ParseAddress(recipient); err != nil {
			return fmt.Errorf("%w: must be valid email", ErrInvalidRecipient)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidChannel, ch)
	}

	return nil
}
