package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/skairipa08/FundEd/internal/mailer"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/money"
)

// Notifier turns domain events into transactional mail.
type Notifier struct {
	mailer   mailer.Service
	fromAddr string
	fromName string
}

func NewNotifier(m mailer.Service, fromAddr, fromName string) *Notifier {
	if fromName == "" {
		fromName = "FundEd"
	}
	return &Notifier{mailer: m, fromAddr: fromAddr, fromName: fromName}
}

func (n *Notifier) send(ctx context.Context, to, subject, text, htmlBody string) error {
	return n.mailer.Send(ctx, mailer.Email{
		From:     n.fromAddr,
		FromName: n.fromName,
		To:       []string{to},
		Subject:  subject,
		TextBody: text,
		HTMLBody: htmlBody,
	})
}

// DonationReceived sends the donor a receipt.
func (n *Notifier) DonationReceived(ctx context.Context, d payments.Donation, campaignTitle string) error {
	if d.DonorEmail == nil || *d.DonorEmail == "" {
		return nil
	}
	amount := money.Format(d.Currency, d.AmountCents)
	name := d.DonorName
	if name == "" || d.Anonymous {
		name = "friend"
	}

	subject := "Thank you for your donation to " + campaignTitle
	text := fmt.Sprintf("Hi %s,\n\nWe received your donation of %s to \"%s\".\nReference: %s\n\nThank you for supporting education.\nThe FundEd team\n",
		name, amount, campaignTitle, d.ID)
	body := fmt.Sprintf(`<html>
  <body style="font-family: sans-serif;">
    <h2>Thank you!</h2>
    <p>Hi %s,</p>
    <p>We received your donation of <strong>%s</strong> to <strong>%s</strong>.</p>
    <p>Reference: %s</p>
    <p>Thank you for supporting education.<br>The FundEd team</p>
  </body>
</html>
`, html.EscapeString(name), amount, html.EscapeString(campaignTitle), d.ID)

	return n.send(ctx, *d.DonorEmail, subject, text, body)
}

// VerificationDecided tells a student whether their profile was approved.
func (n *Notifier) VerificationDecided(ctx context.Context, u users.User, p users.StudentProfile) error {
	var subject, line string
	switch p.VerificationStatus {
	case users.VerificationVerified:
		subject = "Your student profile is verified"
		line = "Your student profile has been verified. You can now create campaigns."
	case users.VerificationRejected:
		subject = "Your student verification was not approved"
		line = "Your student profile could not be verified."
		if p.RejectionReason != nil && strings.TrimSpace(*p.RejectionReason) != "" {
			line += " Reason: " + *p.RejectionReason
		}
	default:
		return nil
	}

	text := fmt.Sprintf("Hi %s,\n\n%s\n\nThe FundEd team\n", u.Name, line)
	body := fmt.Sprintf(`<html>
  <body style="font-family: sans-serif;">
    <p>Hi %s,</p>
    <p>%s</p>
    <p>The FundEd team</p>
  </body>
</html>
`, html.EscapeString(u.Name), html.EscapeString(line))

	return n.send(ctx, u.Email, subject, text, body)
}
