package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/skairipa08/FundEd/internal/config"
)

const (
	tlsNone     = "none"
	tlsStartTLS = "starttls"
	tlsImplicit = "tls"
)

var errNoStartTLS = errors.New("smtp: server does not offer STARTTLS")

// SMTPMailer delivers notifications through a relay. Each Send opens its own
// connection.
type SMTPMailer struct {
	host, port   string
	user, pass   string
	mode         string
	skipVerify   bool
	dialTimeout  time.Duration
	writeTimeout time.Duration
	msgIDDomain  string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	mode := strings.ToLower(strings.TrimSpace(cfg.TLSMode))
	if mode == "" {
		mode = tlsNone
	}
	return &SMTPMailer{
		host:         cfg.Host,
		port:         cfg.Port,
		user:         cfg.User,
		pass:         cfg.Pass,
		mode:         mode,
		skipVerify:   cfg.SkipVerifyTLS,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
		msgIDDomain:  messageIDDomain(cfg.From, cfg.Host),
	}
}

// messageIDDomain prefers the sender's domain so ids stay stable across relays.
func messageIDDomain(from, host string) string {
	if i := strings.LastIndexByte(from, '@'); i >= 0 && i < len(from)-1 {
		return from[i+1:]
	}
	if host != "" {
		return host
	}
	return "funded.local"
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	if err := e.validate(); err != nil {
		return err
	}
	raw, err := buildMIMEMessage(e, m.msgIDDomain, time.Now())
	if err != nil {
		return err
	}

	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	defer c.Quit()

	if err := m.secure(c); err != nil {
		return err
	}
	if err := m.authenticate(c); err != nil {
		return err
	}
	if err := envelope(c, e.From, e.AllRecipients()); err != nil {
		return err
	}

	_ = conn.SetWriteDeadline(time.Now().Add(m.writeTimeout))
	return writeData(c, raw)
}

func (m *SMTPMailer) dial(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: m.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(m.host, m.port))
	if err != nil {
		return nil, fmt.Errorf("smtp: dial %s: %w", m.host, err)
	}
	if m.mode != tlsImplicit {
		return conn, nil
	}
	tc := tls.Client(conn, m.tlsConfig())
	if err := tc.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp: tls handshake: %w", err)
	}
	return tc, nil
}

func (m *SMTPMailer) secure(c *smtp.Client) error {
	if m.mode != tlsStartTLS {
		return nil
	}
	if ok, _ := c.Extension("STARTTLS"); !ok {
		return errNoStartTLS
	}
	if err := c.StartTLS(m.tlsConfig()); err != nil {
		return fmt.Errorf("smtp: starttls: %w", err)
	}
	return nil
}

// authenticate is a no-op without credentials or when the relay does not
// advertise AUTH (MailHog and friends).
func (m *SMTPMailer) authenticate(c *smtp.Client) error {
	if m.user == "" || m.pass == "" {
		return nil
	}
	if ok, _ := c.Extension("AUTH"); !ok {
		return nil
	}
	if err := c.Auth(smtp.PlainAuth("", m.user, m.pass, m.host)); err != nil {
		return fmt.Errorf("smtp: auth: %w", err)
	}
	return nil
}

func (m *SMTPMailer) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: m.host, InsecureSkipVerify: m.skipVerify}
}

func envelope(c *smtp.Client, from string, rcpts []string) error {
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp: MAIL FROM: %w", err)
	}
	for _, r := range rcpts {
		if err := c.Rcpt(r); err != nil {
			return fmt.Errorf("smtp: RCPT TO %s: %w", r, err)
		}
	}
	return nil
}

func writeData(c *smtp.Client, raw string) error {
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp: DATA: %w", err)
	}
	if _, err := w.Write([]byte(raw)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: end of data: %w", err)
	}
	return nil
}
