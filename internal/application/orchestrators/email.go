package orchestrators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/google/uuid"

	outboxDomain "ironhall/internal/domain/outbox"
)

// OutboxStoreForQueue defines the store interface needed to queue outgoing email.
type OutboxStoreForQueue interface {
	Save(ctx context.Context, e outboxDomain.Entry) error
}

// EmailPayload is the JSON structure stored in an outbox entry for delivery.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// QueueEmail writes an email into the outbox for the background worker to deliver.
// Delivery failures never surface to the caller; the outbox retries on its own.
// PRE: to and subject are non-empty
// POST: A pending outbox entry exists for the email
func QueueEmail(ctx context.Context, store OutboxStoreForQueue, to, subject, html string) error {
	payload, err := json.Marshal(EmailPayload{To: to, Subject: subject, HTML: html})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	entry := outboxDomain.Entry{
		ID:         uuid.New().String(),
		ActionType: outboxDomain.ActionTypeEmail,
		Payload:    string(payload),
		Status:     outboxDomain.StatusPending,
		CreatedAt:  time.Now(),
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := store.Save(ctx, entry); err != nil {
		return fmt.Errorf("queue email: %w", err)
	}

	slog.Info("email_event", "event", "email_queued", "to", to, "subject", subject, "entry_id", entry.ID)
	return nil
}

// Transactional email templates. Plain table-free HTML keeps rendering
// predictable across clients.
var (
	activationEmailTpl = template.Must(template.New("activation").Parse(`
<h2>Welcome to Iron Hall</h2>
<p>Hi {{.Name}},</p>
<p>Your member account is almost ready. Click the link below within 48 hours to set it live:</p>
<p><a href="{{.ActivationURL}}">Activate my account</a></p>
<p>If you didn't sign up, you can ignore this email.</p>
<p>— The Iron Hall team</p>`))

	contactAckEmailTpl = template.Must(template.New("contact_ack").Parse(`
<h2>Thanks for getting in touch</h2>
<p>Hi {{.Name}},</p>
<p>We've received your message and will get back to you within two working days.</p>
<p>— The Iron Hall team</p>`))

	contactNotifyEmailTpl = template.Must(template.New("contact_notify").Parse(`
<h2>New contact message</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p>{{.Body}}</p>`))

	enrollmentDecisionEmailTpl = template.Must(template.New("enrollment_decision").Parse(`
<h2>Your application update</h2>
<p>Hi {{.Name}},</p>
{{if .Approved}}
<p>Good news — your application for <strong>{{.ProgramName}}</strong> has been approved. Your trainer will be in touch to schedule your first session.</p>
{{else}}
<p>We're sorry, but we couldn't accept your application for <strong>{{.ProgramName}}</strong> at this time.</p>
{{end}}
{{if .Note}}<p>Note from your trainer: {{.Note}}</p>{{end}}
<p>— The Iron Hall team</p>`))

	discountEmailTpl = template.Must(template.New("discount").Parse(`
<h2>Your Iron Hall discount code</h2>
<p>Hi {{.Name}},</p>
<p>Here's your one-time discount code for <strong>{{.Percent}}% off</strong> any program:</p>
<p style="font-size:1.4em"><strong>{{.Code}}</strong></p>
<p>The code is tied to this email address and expires on {{.Expires}}. It can be used once.</p>
<p>— The Iron Hall team</p>`))
)

func renderEmailTpl(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %q: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

// BuildActivationEmail renders the account activation email body.
func BuildActivationEmail(name, activationURL string) (string, error) {
	return renderEmailTpl(activationEmailTpl, map[string]any{
		"Name":          name,
		"ActivationURL": activationURL,
	})
}

// BuildContactAckEmail renders the contact acknowledgement body.
func BuildContactAckEmail(name string) (string, error) {
	return renderEmailTpl(contactAckEmailTpl, map[string]any{"Name": name})
}

// BuildContactNotifyEmail renders the staff inbox notification body.
func BuildContactNotifyEmail(name, email, subject, body string) (string, error) {
	return renderEmailTpl(contactNotifyEmailTpl, map[string]any{
		"Name": name, "Email": email, "Subject": subject, "Body": body,
	})
}

// BuildEnrollmentDecisionEmail renders the approve/decline notification body.
func BuildEnrollmentDecisionEmail(name, programName string, approved bool, note string) (string, error) {
	return renderEmailTpl(enrollmentDecisionEmailTpl, map[string]any{
		"Name": name, "ProgramName": programName, "Approved": approved, "Note": note,
	})
}

// BuildDiscountEmail renders the discount code delivery body.
func BuildDiscountEmail(name, code string, percent int, expiresAt time.Time) (string, error) {
	return renderEmailTpl(discountEmailTpl, map[string]any{
		"Name":    name,
		"Code":    code,
		"Percent": percent,
		"Expires": expiresAt.Format("Monday, 2 January 2006"),
	})
}
