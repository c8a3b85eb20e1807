package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/email"
	"portfolio/models"
	"portfolio/views"
)

type mockRepository struct {
	saveFunc func(ctx context.Context, msg *models.ContactMessage) error
	saved    []*models.ContactMessage
}

func (m *mockRepository) Save(ctx context.Context, msg *models.ContactMessage) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, msg)
	return nil
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	return nil, nil
}

func (m *mockRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.saved)), nil
}

type mockMailer struct {
	sendFunc func(ctx context.Context, msg email.Message) error
	sent     []email.Message
}

func (m *mockMailer) Send(ctx context.Context, msg email.Message) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockNotifier struct {
	notifyFunc func(ctx context.Context, s email.Submission) error
	calls      int
}

func (m *mockNotifier) Notify(ctx context.Context, s email.Submission) error {
	m.calls++
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, s)
	}
	return nil
}

func validForm() Form {
	return Form{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "I would like to talk about a project.",
	}
}

func newTestService(repo *mockRepository, mailer *mockMailer, notifier Notifier, verbose bool) *Service {
	return NewService(repo, mailer, notifier, ServiceConfig{
		OwnerEmail: "owner@example.com",
		Signature:  "Portfolio",
		Verbose:    verbose,
	}, zap.NewNop())
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *Form)
		want   string
	}{
		{"valid", func(f *Form) {}, ""},
		{"honeypot", func(f *Form) { f.Website = "http://spam.example" }, "Validation failed"},
		{"honeypot wins over other errors", func(f *Form) { f.Website = "x"; f.Name = "" }, "Validation failed"},
		{"missing name", func(f *Form) { f.Name = "" }, "Name is required"},
		{"name at maximum", func(f *Form) { f.Name = strings.Repeat("n", 100) }, ""},
		{"long name", func(f *Form) { f.Name = strings.Repeat("n", 101) }, "Name must be at most 100 characters"},
		{"bad email", func(f *Form) { f.Email = "not-an-email" }, "Invalid email address"},
		{"empty email", func(f *Form) { f.Email = "" }, "Invalid email address"},
		{"short message", func(f *Form) { f.Message = "too short" }, "Message must be at least 10 characters"},
		{"message at minimum", func(f *Form) { f.Message = strings.Repeat("m", 10) }, ""},
		{"message at maximum", func(f *Form) { f.Message = strings.Repeat("m", 1000) }, ""},
		{"long message", func(f *Form) { f.Message = strings.Repeat("m", 1001) }, "Message must be at most 1000 characters"},
		{"first rule wins", func(f *Form) { f.Name = ""; f.Message = "x" }, "Name is required"},
		{"message counted in runes", func(f *Form) { f.Message = strings.Repeat("é", 1000) }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			assert.Equal(t, tt.want, f.Validate())
		})
	}
}

func TestService_Submit_Success(t *testing.T) {
	repo := &mockRepository{}
	mailer := &mockMailer{}
	notifier := &mockNotifier{}
	svc := newTestService(repo, mailer, notifier, false)

	res := svc.Submit(context.Background(), validForm())

	assert.True(t, res.Success)
	assert.Equal(t, "Thank you for your message! I'll get back to you soon.", res.Message)
	assert.Equal(t, http.StatusOK, res.Status())
	require.Len(t, repo.saved, 1)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "owner@example.com", mailer.sent[0].To)
	assert.Equal(t, "ada@example.com", mailer.sent[0].ReplyTo)
	assert.Equal(t, "ada@example.com", mailer.sent[1].To)
	assert.Equal(t, 1, notifier.calls)
}

func TestService_Submit_HoneypotTouchesNothing(t *testing.T) {
	repo := &mockRepository{}
	mailer := &mockMailer{}
	notifier := &mockNotifier{}
	svc := newTestService(repo, mailer, notifier, false)

	f := validForm()
	f.Website = "bot"
	res := svc.Submit(context.Background(), f)

	assert.False(t, res.Success)
	assert.Equal(t, "Validation failed", res.Error)
	assert.NotContains(t, strings.ToLower(res.Error), "spam")
	assert.Empty(t, repo.saved)
	assert.Empty(t, mailer.sent)
	assert.Zero(t, notifier.calls)
}

func TestService_Submit_SaveFails(t *testing.T) {
	repo := &mockRepository{saveFunc: func(context.Context, *models.ContactMessage) error {
		return errors.New("db down")
	}}
	mailer := &mockMailer{}
	svc := newTestService(repo, mailer, nil, false)

	res := svc.Submit(context.Background(), validForm())

	assert.Equal(t, "Could not save your message. Please try again.", res.Error)
	assert.Empty(t, mailer.sent)
}

func TestService_Submit_OwnerMailFails(t *testing.T) {
	repo := &mockRepository{}
	mailer := &mockMailer{sendFunc: func(context.Context, email.Message) error {
		return errors.New("provider rejected")
	}}
	notifier := &mockNotifier{}
	svc := newTestService(repo, mailer, notifier, false)

	res := svc.Submit(context.Background(), validForm())

	assert.Equal(t, "Email service error. Please try again or email us directly.", res.Error)
	assert.Len(t, repo.saved, 1, "stored message is kept")
	assert.Zero(t, notifier.calls)
}

func TestService_Submit_ConfirmationFails(t *testing.T) {
	repo := &mockRepository{}
	mailer := &mockMailer{sendFunc: func(_ context.Context, msg email.Message) error {
		if msg.To == "ada@example.com" {
			return errors.New("mailbox unavailable")
		}
		return nil
	}}
	notifier := &mockNotifier{}
	svc := newTestService(repo, mailer, notifier, false)

	res := svc.Submit(context.Background(), validForm())

	assert.Equal(t, "We couldn't send your message. Please try again or email us directly.", res.Error)
	assert.Len(t, repo.saved, 1)
	assert.Len(t, mailer.sent, 1)
	assert.Zero(t, notifier.calls)
}

func TestService_Submit_NotifierFailureIsIgnored(t *testing.T) {
	notifier := &mockNotifier{notifyFunc: func(context.Context, email.Submission) error {
		return errors.New("webhook 500")
	}}
	svc := newTestService(&mockRepository{}, &mockMailer{}, notifier, false)

	res := svc.Submit(context.Background(), validForm())

	assert.True(t, res.Success)
	assert.Equal(t, 1, notifier.calls)
}

func TestService_Submit_RecoversPanics(t *testing.T) {
	repo := &mockRepository{saveFunc: func(context.Context, *models.ContactMessage) error {
		panic("boom")
	}}

	res := newTestService(repo, &mockMailer{}, nil, false).Submit(context.Background(), validForm())
	assert.Equal(t, "Something went wrong. Please try again or email us directly.", res.Error)
	assert.Equal(t, http.StatusInternalServerError, res.Status())

	res = newTestService(repo, &mockMailer{}, nil, true).Submit(context.Background(), validForm())
	assert.Equal(t, "Something went wrong. Please try again or email us directly. (panic: boom)", res.Error)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContactMessage{}))
	return db
}

func TestGormRepository(t *testing.T) {
	repo := NewGormRepository(setupTestDB(t))
	ctx := context.Background()

	first := &models.ContactMessage{Name: "A", Email: "a@example.com", Message: "first message"}
	require.NoError(t, repo.Save(ctx, first))
	assert.Len(t, first.ID, 36)

	second := &models.ContactMessage{Name: "B", Email: "b@example.com", Message: "second message"}
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, setupCreatedAt(repo, first.ID, second.ID))

	msgs, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "B", msgs[0].Name)

	msgs, err = repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "A", msgs[0].Name)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

// setupCreatedAt spreads timestamps so ordering does not depend on clock
// resolution.
func setupCreatedAt(repo *GormRepository, older, newer string) error {
	if err := repo.db.Exec("UPDATE contact_messages SET created_at = ? WHERE id = ?", "2024-01-01 00:00:00", older).Error; err != nil {
		return err
	}
	return repo.db.Exec("UPDATE contact_messages SET created_at = ? WHERE id = ?", "2024-02-01 00:00:00", newer).Error
}

func TestSlackNotifier(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewSlackNotifier(srv.URL).Notify(context.Background(), email.Submission{
		Name:    "Ada <script>",
		Email:   "ada@example.com",
		Message: "hello & welcome",
	})
	require.NoError(t, err)

	assert.Equal(t, "New contact form submission from Ada <script>", payload["text"])
	blocks, ok := payload["blocks"].([]any)
	require.True(t, ok)
	assert.Len(t, blocks, 3)

	var raw strings.Builder
	enc := json.NewEncoder(&raw)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(payload["blocks"]))
	assert.Contains(t, raw.String(), "Ada &lt;script&gt;")
	assert.Contains(t, raw.String(), "hello &amp; welcome")
	assert.Contains(t, raw.String(), "<mailto:ada@example.com|ada@example.com>")
}

func TestSlackNotifier_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewSlackNotifier(srv.URL).Notify(context.Background(), email.Submission{Name: "A"})
	assert.Error(t, err)
}

func setupTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.SetHTMLTemplate(views.Must(nil))
	router.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("test-secret-0123456789"))))
	NewContactModule(svc, "https://example.com").RegisterRoutes(router)
	return router
}

func postForm(router *gin.Engine, values url.Values, accept string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func formValues(f Form) url.Values {
	return url.Values{
		"name":    {f.Name},
		"email":   {f.Email},
		"message": {f.Message},
		"website": {f.Website},
	}
}

func TestHandler_JSON(t *testing.T) {
	router := setupTestRouter(newTestService(&mockRepository{}, &mockMailer{}, nil, false))

	w := postForm(router, formValues(validForm()), "application/json")

	assert.Equal(t, http.StatusOK, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "Thank you for your message! I'll get back to you soon.", res["message"])
	assert.NotContains(t, res, "error")
}

func TestHandler_JSONValidationError(t *testing.T) {
	router := setupTestRouter(newTestService(&mockRepository{}, &mockMailer{}, nil, false))

	f := validForm()
	f.Email = "nope"
	w := postForm(router, formValues(f), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid email address"}`, w.Body.String())
}

func TestHandler_BrowserPostRedirectGet(t *testing.T) {
	router := setupTestRouter(newTestService(&mockRepository{}, &mockMailer{}, nil, false))

	w := postForm(router, formValues(validForm()), "text/html")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/contact", w.Header().Get("Location"))

	req, _ := http.NewRequest(http.MethodGet, "/contact", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	page := httptest.NewRecorder()
	router.ServeHTTP(page, req)

	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Thank you for your message! I&#39;ll get back to you soon.")
}

func TestHandler_BrowserErrorKeepsInput(t *testing.T) {
	router := setupTestRouter(newTestService(&mockRepository{}, &mockMailer{}, nil, false))

	f := validForm()
	f.Message = "short"
	w := postForm(router, formValues(f), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Message must be at least 10 characters")
	assert.Contains(t, body, `value="Ada Lovelace"`)
	assert.Contains(t, body, ">short</textarea>")
}

func TestHandler_Form(t *testing.T) {
	router := setupTestRouter(newTestService(&mockRepository{}, &mockMailer{}, nil, false))

	req, _ := http.NewRequest(http.MethodGet, "/contact", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="website"`)
	assert.Contains(t, w.Body.String(), `minlength="10"`)
}
