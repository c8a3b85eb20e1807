package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerNotification(t *testing.T) {
	msg, err := OwnerNotification("owner@example.com", Submission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "<script>alert(1)</script> hello there",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t, "New Contact Form Submission from Ada", msg.Subject)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Contains(t, msg.HTML, "mailto:ada@example.com")
}

func TestConfirmation(t *testing.T) {
	msg, err := Confirmation(Submission{Name: "Ada", Email: "ada@example.com", Message: "hello there"}, "Portfolio")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", msg.To)
	assert.Empty(t, msg.ReplyTo)
	assert.Equal(t, "Thank you for contacting me!", msg.Subject)
	assert.Contains(t, msg.HTML, "Thank You, Ada!")
	assert.Contains(t, msg.HTML, "Portfolio")
}

func TestSMTPMailer_Send(t *testing.T) {
	mailer := NewSMTPMailer("smtp.example.com", "587", "user", "secret", "Site <hello@example.com>")

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotBody string
	)
	mailer.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, string(msg)
		return nil
	}

	err := mailer.Send(context.Background(), Message{
		To:      "ada@example.com",
		ReplyTo: "reply@example.com",
		Subject: "Hi\r\nBcc: evil@example.com",
		HTML:    "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "hello@example.com", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, gotBody, "Reply-To: reply@example.com\r\n")
	assert.Contains(t, gotBody, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, gotBody, "Subject: Hi  Bcc: evil@example.com\r\n")
	assert.NotContains(t, gotBody, "\r\nBcc:")
}

func TestSMTPMailer_SendError(t *testing.T) {
	mailer := NewSMTPMailer("smtp.example.com", "25", "", "", "hello@example.com")
	mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := mailer.Send(context.Background(), Message{To: "a@example.com", Subject: "s"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	mailer := NewSMTPMailer("smtp.example.com", "25", "", "", "hello@example.com")
	mailer.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mailer.Send(ctx, Message{To: "a@example.com"}), context.Canceled)
}

func newResendServer(t *testing.T, status int, got *map[string]any) *ResendMailer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
			return
		}
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	t.Cleanup(srv.Close)

	mailer := NewResendMailer("re_test", "Site <hello@example.com>")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	mailer.client.BaseURL = base
	return mailer
}

func TestResendMailer_Send(t *testing.T) {
	var got map[string]any
	mailer := newResendServer(t, http.StatusOK, &got)

	err := mailer.Send(context.Background(), Message{
		To:      "ada@example.com",
		ReplyTo: "reply@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Site <hello@example.com>", got["from"])
	assert.Equal(t, []any{"ada@example.com"}, got["to"])
	assert.Equal(t, "reply@example.com", got["reply_to"])
	assert.Equal(t, "Hello", got["subject"])
	assert.Equal(t, "<p>hi</p>", got["html"])
}

func TestResendMailer_SendError(t *testing.T) {
	mailer := newResendServer(t, http.StatusUnprocessableEntity, nil)

	err := mailer.Send(context.Background(), Message{To: "bad", Subject: "Hello"})
	assert.Error(t, err)
}
