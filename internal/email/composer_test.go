package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplates_Loaded(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{TemplateVerification, TemplateAdminNotice}, tm.TemplateNames())

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestComposer_Verification(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)
	c := NewComposer(tm, "")

	link := "https://api.example.edu/api/v1/applications/verify?code=abc&email=ada%40example.edu"
	msg, err := c.Verification("ada@example.edu", "<b>Ada</b>", link)
	require.NoError(t, err)

	assert.Equal(t, []string{"ada@example.edu"}, msg.To)
	assert.Equal(t, "Verify Your Campus Ambassador Application", msg.Subject)
	assert.Contains(t, msg.Body, link)
	assert.Contains(t, msg.HTMLBody, "Campus Ambassador Program")
	// имя экранируется шаблоном
	assert.NotContains(t, msg.HTMLBody, "<b>Ada</b>")
	assert.Contains(t, msg.HTMLBody, "&lt;b&gt;Ada&lt;/b&gt;")
}

func TestComposer_AdminNotice(t *testing.T) {
	tm := NewTemplateManager()
	require.NoError(t, tm.AddTemplate(TemplateAdminNotice, `{{.SiteName}}: {{.Application.Name}} / {{.Application.University}}`))
	c := NewComposer(tm, "Ambassadors")

	msg, err := c.AdminNotice("admin@example.edu", TemplateData{"Name": "Ada Lovelace", "University": "Analytic U"})
	require.NoError(t, err)
	assert.Equal(t, "New Campus Ambassador application: Ada Lovelace", msg.Subject)
	assert.Equal(t, "Ambassadors: Ada Lovelace / Analytic U", msg.HTMLBody)

	msg, err = c.AdminNotice("admin@example.edu", TemplateData{})
	require.NoError(t, err)
	assert.Equal(t, "New Campus Ambassador application", msg.Subject)
}

func TestSMTPProvider_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FromEmail = ""
	assert.Error(t, NewSMTPProvider(cfg).Validate())

	cfg.FromEmail = "ambassadors@example.edu"
	assert.NoError(t, NewSMTPProvider(cfg).Validate())

	cfg.Port = 0
	assert.Error(t, NewSMTPProvider(cfg).Validate())

	cfg = DefaultConfig()
	cfg.Host = ""
	cfg.FromEmail = "ambassadors@example.edu"
	p := NewSMTPProvider(cfg)
	assert.Error(t, p.Send(&Email{To: []string{"ada@example.edu"}, Subject: "hi", Body: "hi"}))
}
