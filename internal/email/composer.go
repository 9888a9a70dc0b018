package email

import (
	"fmt"
)

// Composer собирает письма программы амбассадоров из шаблонов
type Composer struct {
	renderer TemplateRenderer
	siteName string
}

func NewComposer(renderer TemplateRenderer, siteName string) *Composer {
	if siteName == "" {
		siteName = "Campus Ambassador Program"
	}
	return &Composer{renderer: renderer, siteName: siteName}
}

// Verification - письмо со ссылкой подтверждения email
func (c *Composer) Verification(to, name, verificationURL string) (*Email, error) {
	data := TemplateData{
		"Name":            name,
		"Email":           to,
		"VerificationURL": verificationURL,
		"SiteName":        c.siteName,
	}

	html, err := c.renderer.Render(TemplateVerification, data)
	if err != nil {
		return nil, fmt.Errorf("render verification email: %w", err)
	}

	return &Email{
		To:       []string{to},
		Subject:  "Verify Your Campus Ambassador Application",
		HTMLBody: html,
		Body: fmt.Sprintf("Hi %s,\n\nPlease verify your email address by opening this link:\n%s\n\nIf you didn't apply, ignore this email.\n",
			name, verificationURL),
	}, nil
}

// AdminNotice - уведомление администратору о новой заявке
func (c *Composer) AdminNotice(to string, application TemplateData) (*Email, error) {
	data := TemplateData{
		"SiteName":    c.siteName,
		"Application": application,
	}

	html, err := c.renderer.Render(TemplateAdminNotice, data)
	if err != nil {
		return nil, fmt.Errorf("render admin notice: %w", err)
	}

	subject := "New Campus Ambassador application"
	if name, ok := application["Name"].(string); ok && name != "" {
		subject = fmt.Sprintf("New Campus Ambassador application: %s", name)
	}

	return &Email{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: html,
	}, nil
}
