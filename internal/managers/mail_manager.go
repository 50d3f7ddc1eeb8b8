// Package managers wraps the external collaborators of the server: tokens, sessions, mail and the database pool.
package managers

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"url-shrinker/internal/config"
	"url-shrinker/internal/metrics"
	"url-shrinker/internal/schemas"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

const (
	mailTimeout = 10 * time.Second

	activationPath    = "/account-activation"
	activationSubject = "Activation Email - User Registration (URL Shortner)"
	activationBody    = "Please click or copy the below activation link to activate your account."
	activationNote    = "The activation link expires in 2 hours."

	resetPath    = "/reset-password"
	resetSubject = "Password Reset (URL Shortner)"
	resetBody    = "Please click or copy the below password-reset link to reset your password."
	resetNote    = "The password-reset link expires in 10 minutes."
)

// MailMgr sends the transactional mails of the account flows.
type MailMgr interface {
	Send(ctx context.Context, m *TransactionalMail) error
	SendActivationMail(ctx context.Context, user *schemas.User, token string) error
	SendPasswordResetMail(ctx context.Context, user *schemas.User, code string) error
}

// TransactionalMail is a single templated mail carrying a link of the form {Url}/{Token}.
type TransactionalMail struct {
	Kind      string
	FirstName string
	LastName  string
	Email     string
	Token     string
	Url       string
	BodyText  string
	Subject   string
	Note      string
}

// Link is the target of the button and of the plain link in the mail.
func (m *TransactionalMail) Link() string {
	return m.Url + "/" + m.Token
}

type mailTransport interface {
	deliver(ctx context.Context, to, subject, html, text string) error
}

// MailManager renders mails with hermes and hands them to the configured transport.
type MailManager struct {
	Hermes      *hermes.Hermes
	transport   mailTransport
	frontendURL string
	production  bool
}

// NewMailManager builds the mail manager for the transport selected in cfg.
func NewMailManager(cfg *config.Config) (MailMgr, error) {
	log.Info("Initializing mail manager")

	if !cfg.IsProduction() {
		log.Info("Running in development mode, email will not be sent to users")
	}

	var transport mailTransport
	switch cfg.MailTransport {
	case config.MailTransportMailgun:
		mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
		if cfg.MailgunAPIBase != "" {
			mg.SetAPIBase(cfg.MailgunAPIBase)
		}
		transport = &mailgunTransport{mailgun: mg, from: cfg.MailFrom}
	case config.MailTransportSMTP, "":
		st, err := newSMTPTransport(cfg)
		if err != nil {
			return nil, err
		}
		transport = st
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
	}

	mm := &MailManager{
		Hermes:      newHermes(cfg.FrontendURL),
		transport:   transport,
		frontendURL: cfg.FrontendURL,
		production:  cfg.IsProduction(),
	}
	log.Info("Initialized mail manager")
	return mm, nil
}

func newHermes(frontendURL string) *hermes.Hermes {
	return &hermes.Hermes{
		Theme:         new(hermes.Default),
		TextDirection: hermes.TDLeftToRight,
		Product: hermes.Product{
			Name:        "URL Shortner",
			Link:        frontendURL,
			Copyright:   "URL Shortner",
			TroubleText: "If the '{ACTION}' button does not work, copy and paste the URL below into your web browser.",
		},
	}
}

// SendActivationMail sends the account activation link for token.
func (mm *MailManager) SendActivationMail(ctx context.Context, user *schemas.User, token string) error {
	return mm.Send(ctx, &TransactionalMail{
		Kind:      "activation",
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Token:     token,
		Url:       mm.frontendURL + activationPath,
		BodyText:  activationBody,
		Subject:   activationSubject,
		Note:      activationNote,
	})
}

// SendPasswordResetMail sends the password reset link for code.
func (mm *MailManager) SendPasswordResetMail(ctx context.Context, user *schemas.User, code string) error {
	return mm.Send(ctx, &TransactionalMail{
		Kind:      "password_reset",
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Token:     code,
		Url:       mm.frontendURL + resetPath,
		BodyText:  resetBody,
		Subject:   resetSubject,
		Note:      resetNote,
	})
}

// Send renders m and delivers it. Outside production the mail is only logged.
func (mm *MailManager) Send(ctx context.Context, m *TransactionalMail) error {
	if !mm.production {
		log.WithField("to", m.Email).Infof("Skipping %s mail in development mode, link: %s", m.Subject, m.Link())
		metrics.MailsSent.WithLabelValues(m.Kind, metrics.ResultSkipped).Inc()
		return nil
	}

	html, text, err := mm.render(m)
	if err != nil {
		metrics.MailsSent.WithLabelValues(m.Kind, metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to render mail: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	if err := mm.transport.deliver(ctx, m.Email, m.Subject, html, text); err != nil {
		log.Warningf("Error sending %s mail: %s", m.Kind, err.Error())
		metrics.MailsSent.WithLabelValues(m.Kind, metrics.ResultFailure).Inc()
		return err
	}

	log.Debug("Mail sent to ", m.Email)
	metrics.MailsSent.WithLabelValues(m.Kind, metrics.ResultSuccess).Inc()
	return nil
}

func (mm *MailManager) render(m *TransactionalMail) (string, string, error) {
	email := hermes.Email{
		Body: hermes.Body{
			Name:   fmt.Sprintf("%s, %s", m.LastName, m.FirstName),
			Intros: []string{m.BodyText},
			Actions: []hermes.Action{
				{
					Button: hermes.Button{
						Text: "Open link",
						Link: m.Link(),
					},
				},
			},
			Outros: []string{"Note: " + m.Note},
		},
	}

	html, err := mm.Hermes.GenerateHTML(email)
	if err != nil {
		return "", "", err
	}
	text, err := mm.Hermes.GeneratePlainText(email)
	if err != nil {
		return "", "", err
	}
	return html, text, nil
}

type mailgunTransport struct {
	mailgun mailgun.Mailgun
	from    string
}

func (t *mailgunTransport) deliver(ctx context.Context, to, subject, html, text string) error {
	message := t.mailgun.NewMessage(t.from, subject, text, to)
	message.SetHtml(html)
	_, _, err := t.mailgun.Send(ctx, message)
	return err
}

type smtpTransport struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	fromAddr   string
	requireTLS bool
}

func newSMTPTransport(cfg *config.Config) (*smtpTransport, error) {
	from, err := mail.ParseAddress(cfg.MailFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_FROM %q: %w", cfg.MailFrom, err)
	}

	return &smtpTransport{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.Email,
		password:   cfg.AppPassword,
		from:       from.String(),
		fromAddr:   from.Address,
		requireTLS: cfg.SMTPRequireTLS,
	}, nil
}

func (t *smtpTransport) deliver(ctx context.Context, to, subject, html, _ string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(t.host, strconv.Itoa(t.port)))
	if err != nil {
		return fmt.Errorf("failed to connect to smtp relay: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if t.requireTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return errors.New("smtp relay does not offer STARTTLS")
		}
		if err := client.StartTLS(&tls.Config{ServerName: t.host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}

	if t.username != "" {
		if err := client.Auth(smtp.PlainAuth("", t.username, t.password, t.host)); err != nil {
			return err
		}
	}

	if err := client.Mail(t.fromAddr); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(t.compose(to, subject, html)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	// The relay accepted the message once DATA is closed.
	_ = client.Quit()
	return nil
}

func (t *smtpTransport) compose(to, subject, html string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", t.from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(html)
	return buf.Bytes()
}
