package managers

import (
	"context"
	"testing"
	"time"

	"url-shrinker/internal/config"
	"url-shrinker/internal/schemas"

	smtpmock "github.com/mocktools/go-smtp-mock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSMTPMock(t *testing.T) *smtpmock.Server {
	t.Helper()

	server := smtpmock.New(smtpmock.ConfigurationAttr{
		MultipleMessageReceiving: true,
	})
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })

	return server
}

func mailTestConfig(port int, environment string) *config.Config {
	return &config.Config{
		Environment:    environment,
		FrontendURL:    "https://shrinker.example",
		MailTransport:  config.MailTransportSMTP,
		MailFrom:       "Do Not Reply <do-not-reply@example.com>",
		SMTPHost:       "127.0.0.1",
		SMTPPort:       port,
		SMTPRequireTLS: false,
	}
}

func mailTestUser() *schemas.User {
	return &schemas.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
}

func TestSendActivationMailOverSMTP(t *testing.T) {
	server := startSMTPMock(t)

	mm, err := NewMailManager(mailTestConfig(server.PortNumber(), "production"))
	require.NoError(t, err)

	err = mm.SendActivationMail(context.Background(), mailTestUser(), "activation-token")
	require.NoError(t, err)

	messages, err := server.WaitForMessages(1, 2*time.Second)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	msg := messages[0]
	assert.Contains(t, msg.MailfromRequest(), "do-not-reply@example.com")
	require.Len(t, msg.RcpttoRequestResponse(), 1)
	assert.Contains(t, msg.RcpttoRequestResponse()[0][0], "ada@example.com")
	assert.Contains(t, msg.MsgRequest(), "Subject: Activation Email - User Registration (URL Shortner)")
	assert.Contains(t, msg.MsgRequest(), "https://shrinker.example/account-activation/activation-token")
}

func TestSendPasswordResetMailOverSMTP(t *testing.T) {
	server := startSMTPMock(t)

	mm, err := NewMailManager(mailTestConfig(server.PortNumber(), "production"))
	require.NoError(t, err)

	err = mm.SendPasswordResetMail(context.Background(), mailTestUser(), "reset-code")
	require.NoError(t, err)

	messages, err := server.WaitForMessages(1, 2*time.Second)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].MsgRequest(), "Subject: Password Reset (URL Shortner)")
	assert.Contains(t, messages[0].MsgRequest(), "https://shrinker.example/reset-password/reset-code")
}

func TestSendSkippedOutsideProduction(t *testing.T) {
	server := startSMTPMock(t)

	mm, err := NewMailManager(mailTestConfig(server.PortNumber(), "development"))
	require.NoError(t, err)

	err = mm.SendActivationMail(context.Background(), mailTestUser(), "activation-token")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, server.Messages())
}

func TestSendFailsWhenRelayLacksSTARTTLS(t *testing.T) {
	server := startSMTPMock(t)

	cfg := mailTestConfig(server.PortNumber(), "production")
	cfg.SMTPRequireTLS = true
	mm, err := NewMailManager(cfg)
	require.NoError(t, err)

	err = mm.SendActivationMail(context.Background(), mailTestUser(), "activation-token")
	assert.Error(t, err)
}

func TestSendFailsWhenRelayUnreachable(t *testing.T) {
	server := startSMTPMock(t)
	port := server.PortNumber()
	require.NoError(t, server.Stop())

	mm, err := NewMailManager(mailTestConfig(port, "production"))
	require.NoError(t, err)

	err = mm.SendPasswordResetMail(context.Background(), mailTestUser(), "reset-code")
	assert.Error(t, err)
}

func TestRenderMail(t *testing.T) {
	mm := &MailManager{Hermes: newHermes("https://shrinker.example")}

	html, text, err := mm.render(&TransactionalMail{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Token:     "abc",
		Url:       "https://shrinker.example/account-activation",
		BodyText:  activationBody,
		Note:      activationNote,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Lovelace, Ada")
	assert.Contains(t, html, "https://shrinker.example/account-activation/abc")
	assert.Contains(t, text, activationBody)
	assert.Contains(t, text, "Note: "+activationNote)
}

func TestNewMailManagerRejectsBadSender(t *testing.T) {
	cfg := mailTestConfig(25, "production")
	cfg.MailFrom = "not an address"

	_, err := NewMailManager(cfg)
	assert.Error(t, err)
}
