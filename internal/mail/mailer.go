package mail

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"
)

const (
	TemplateVerification = "verification"
	TemplateWelcome      = "welcome"
	TemplateResetRequest = "reset-request"
	TemplateResetSuccess = "reset-success"
)

type template struct {
	subject string
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func newTemplate(subject, text, html string) template {
	return template{
		subject: subject,
		text:    texttemplate.Must(texttemplate.New("text").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New("html").Parse(html)),
	}
}

var templates = map[string]template{
	TemplateVerification: newTemplate(
		"Verify your email",
		"Your verification code is {{.Code}}. It expires in 5 minutes.\n",
		`<p>Your verification code is <strong>{{.Code}}</strong>.</p><p>It expires in 5 minutes.</p>`,
	),
	TemplateWelcome: newTemplate(
		"Welcome to HR Portal",
		"Hello {{.Name}}, your {{.Role}} account is verified and ready to use.\n",
		`<p>Hello {{.Name}},</p><p>Your {{.Role}} account is verified and ready to use.</p>`,
	),
	TemplateResetRequest: newTemplate(
		"Reset your password",
		"Open this link within one hour to choose a new password:\n{{.Link}}\n",
		`<p>Open <a href="{{.Link}}">this link</a> within one hour to choose a new password.</p>`,
	),
	TemplateResetSuccess: newTemplate(
		"Your password was changed",
		"Your password was reset. If this was not you, contact your HR team.\n",
		`<p>Your password was reset. If this was not you, contact your HR team.</p>`,
	),
}

// Mailer renders the auth emails and reports whether delivery succeeded.
// Delivery failures are logged and never fail the calling request.
type Mailer struct {
	sender Sender
	logger *slog.Logger
}

func NewMailer(sender Sender, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{sender: sender, logger: logger.With(slog.String("component", "mail"))}
}

func (m *Mailer) SendVerification(ctx context.Context, to, code string) bool {
	return m.send(ctx, to, TemplateVerification, map[string]string{"Code": code})
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name, role string) bool {
	return m.send(ctx, to, TemplateWelcome, map[string]string{"Name": name, "Role": role})
}

func (m *Mailer) SendResetRequest(ctx context.Context, to, link string) bool {
	return m.send(ctx, to, TemplateResetRequest, map[string]string{"Link": link})
}

func (m *Mailer) SendResetSuccess(ctx context.Context, to string) bool {
	return m.send(ctx, to, TemplateResetSuccess, nil)
}

func (m *Mailer) send(ctx context.Context, to, name string, data any) bool {
	msg, err := Render(name, to, data)
	if err != nil {
		m.logger.Error("render mail", slog.String("template", name), slog.String("error", err.Error()))
		return false
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		m.logger.Warn("mail delivery failed",
			slog.String("template", name),
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Render builds the message for a named template.
func Render(name, to string, data any) (Message, error) {
	t, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail template %q", name)
	}
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	return Message{To: to, Subject: t.subject, Text: text.String(), HTML: html.String(), Template: name}, nil
}
