package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"time"
)

var (
	errNoRecipient = errors.New("mailer: at least one recipient required")
	errNoFrom      = errors.New("mailer: from address required")
	errNoSubject   = errors.New("mailer: subject required")
	errNoBody      = errors.New("mailer: text or html body required")
)

// formatAddress RFC 2047-encodes non-ASCII display names.
func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), addr)
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func header(b *strings.Builder, k, v string) {
	b.WriteString(k)
	b.WriteString(": ")
	b.WriteString(v)
	b.WriteString("\r\n")
}

func part(b *strings.Builder, contentType, body string) {
	header(b, "Content-Type", contentType+"; charset=UTF-8")
	header(b, "Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\r\n")
	}
}

func buildMIMEMessage(e Email, messageIDDomain string, now time.Time) (string, error) {
	if err := e.validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	header(&b, "Date", now.Format(time.RFC1123Z))
	header(&b, "Message-ID", fmt.Sprintf("<%s@%s>", randomHex(12), messageIDDomain))
	header(&b, "From", formatAddress(e.FromName, e.From))
	header(&b, "To", strings.Join(e.To, ", "))
	if len(e.Cc) > 0 {
		header(&b, "Cc", strings.Join(e.Cc, ", "))
	}
	header(&b, "Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	header(&b, "MIME-Version", "1.0")

	keys := make([]string, 0, len(e.Headers))
	for k, v := range e.Headers {
		if k != "" && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		header(&b, k, e.Headers[k])
	}

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		boundary := "alt-" + randomHex(12)
		header(&b, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
		b.WriteString("\r\n")
		b.WriteString("--" + boundary + "\r\n")
		part(&b, "text/plain", e.TextBody)
		b.WriteString("--" + boundary + "\r\n")
		part(&b, "text/html", e.HTMLBody)
		b.WriteString("--" + boundary + "--\r\n")
	case e.HTMLBody != "":
		part(&b, "text/html", e.HTMLBody)
	default:
		part(&b, "text/plain", e.TextBody)
	}
	return b.String(), nil
}
