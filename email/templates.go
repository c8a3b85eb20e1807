package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Submission is the sender-provided content of a contact message.
type Submission struct {
	Name    string
	Email   string
	Message string
}

var ownerTmpl = template.Must(template.New("owner").Parse(`
<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="border-bottom: 2px solid #5B8FD9; padding-bottom: 10px;">New Contact Form Submission</h2>
  <div style="background: #464850; padding: 20px; border-radius: 20px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Message:</strong></p>
    <p style="white-space: pre-wrap; line-height: 1.6;">{{.Message}}</p>
  </div>
  <p style="font-size: 12px;">You can reply directly to this email to respond to {{.Name}}.</p>
</div>
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="border-bottom: 2px solid #5B8FD9; padding-bottom: 10px;">Thank You, {{.Name}}!</h2>
  <p>I've received your message and will get back to you as soon as possible.</p>
  <div style="background: #464850; padding: 20px; border-radius: 20px; margin: 20px 0;">
    <p><strong>Your Message:</strong></p>
    <p style="white-space: pre-wrap; line-height: 1.6;">{{.Message}}</p>
  </div>
  <p>Best regards,<br><strong>{{.Signature}}</strong></p>
</div>
`))

// OwnerNotification is the mail telling the site owner about a submission.
// Replies go straight to the sender.
func OwnerNotification(owner string, s Submission) (Message, error) {
	var buf bytes.Buffer
	if err := ownerTmpl.Execute(&buf, s); err != nil {
		return Message{}, fmt.Errorf("failed to render owner notification: %w", err)
	}
	return Message{
		To:      owner,
		ReplyTo: s.Email,
		Subject: "New Contact Form Submission from " + s.Name,
		HTML:    buf.String(),
	}, nil
}

// Confirmation is the acknowledgement sent back to the sender.
func Confirmation(s Submission, signature string) (Message, error) {
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		Submission
		Signature string
	}{s, signature})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render confirmation: %w", err)
	}
	return Message{
		To:      s.Email,
		Subject: "Thank you for contacting me!",
		HTML:    buf.String(),
	}, nil
}
