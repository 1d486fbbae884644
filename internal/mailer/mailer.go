package mailer

import (
	"context"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
	"time"

	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/wneessen/go-mail"
)

const (
	resetSubject = "Your InterviewAce password reset code"
	sendTimeout  = 15 * time.Second
)

var resetText = texttpl.Must(texttpl.New("reset.txt").Parse(
	"Use the following code to reset your InterviewAce password: {{.OTP}}. This code expires in {{.ExpiresIn}} minutes.",
))

var resetHTML = htmltpl.Must(htmltpl.New("reset.html").Parse(`
<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background:#f6f8fb; padding:24px;">
  <table width="100%" cellpadding="0" cellspacing="0" style="max-width:520px; margin:0 auto; background:#ffffff; border-radius:16px; padding:32px; box-shadow:0 20px 60px rgba(15,23,42,0.08);">
    <tr><td style="text-align:center;">
      <h1 style="margin:0; font-size:24px; color:#0f172a;">Reset your password</h1>
      <p style="color:#475569; font-size:15px;">Use the one-time code below to reset your InterviewAce password. The code expires in {{.ExpiresIn}} minutes.</p>
      <div style="display:inline-block; margin:24px 0; padding:16px 32px; font-size:32px; letter-spacing:8px; font-weight:700; color:#0f172a; background:#eef2ff; border-radius:12px;">
        {{.OTP}}
      </div>
      <p style="color:#94a3b8; font-size:13px;">If you did not request this, you can safely ignore this email.</p>
    </td></tr>
  </table>
</div>
`))

type otpData struct {
	OTP       string
	ExpiresIn int
}

// Mailer delivers transactional email over SMTP. With no host configured it
// only logs what it would have sent.
type Mailer struct {
	cfg       config.SMTPConfig
	expiresIn time.Duration
}

func New(cfg config.SMTPConfig, otpTTL time.Duration) *Mailer {
	if cfg.Host == "" {
		config.Logger.Warn("SMTP_HOST is not defined. Password reset emails will fail until SMTP credentials are configured.")
	}
	return &Mailer{cfg: cfg, expiresIn: otpTTL}
}

func (m *Mailer) SendPasswordResetOTP(ctx context.Context, recipient, otp string) error {
	log := config.WithContext(ctx)

	if m.cfg.Host == "" {
		log.Warnf("[mailer] SMTP not configured. OTP for %s: %s", recipient, otp)
		return nil
	}

	msg, err := buildOTPMessage(m.cfg.From, recipient, otp, m.expiresIn)
	if err != nil {
		return err
	}

	client, err := m.client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	log.WithField("recipient", recipient).Info("password reset email sent")
	return nil
}

// Port 465 speaks implicit TLS; any other port upgrades with STARTTLS when
// the server offers it.
func (m *Mailer) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithTimeout(sendTimeout)}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	opts = append(opts, mail.WithPort(m.cfg.Port))

	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

func buildOTPMessage(from, to, otp string, ttl time.Duration) (*mail.Msg, error) {
	data := otpData{OTP: otp, ExpiresIn: int(ttl.Minutes())}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(resetSubject)

	if err := msg.SetBodyTextTemplate(resetText, data); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := msg.AddAlternativeHTMLTemplate(resetHTML, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}
	return msg, nil
}
