package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"time"

	"github.com/Sanchit081/NeuroBit/internal/config"
)

// Mailer sends the welcome email to new subscribers over SMTP.
type Mailer struct {
	cfg        config.Config
	welcomeTpl *template.Template
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		cfg:        cfg,
		welcomeTpl: template.Must(template.New("welcome").Parse(welcomeHTMLTemplate)),
	}
}

type welcomeData struct {
	Name string
	Year int
}

// SendWelcome renders and sends the welcome mail. The dial is bounded by ctx
// so a slow SMTP server cannot hold a notification goroutine forever.
func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	if name == "" {
		name = "there"
	}

	var body bytes.Buffer
	if err := m.welcomeTpl.Execute(&body, welcomeData{Name: name, Year: time.Now().Year()}); err != nil {
		return err
	}

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %q <%s>\r\n", m.cfg.EmailName, m.cfg.EmailFrom)
	write("To: %s\r\n", to)
	write("Subject: Welcome to NeuroBit!\r\n")
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("\r\n")
	msg.Write(body.Bytes())
	write("\r\n")

	return m.send(ctx, to, msg.Bytes())
}

func (m *Mailer) send(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return err
	}
	defer client.Quit()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: m.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsCfg); err != nil {
			return err
		}
	}

	if m.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(m.cfg.EmailFrom); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

const welcomeHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Welcome to NeuroBit!</title>
</head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #0ea5e9, #d946ef); padding: 30px; text-align: center; color: white;">
    <h1 style="margin: 0; font-size: 28px;">Welcome to NeuroBit!</h1>
    <p style="margin: 10px 0 0 0; opacity: 0.9;">AI-Enhanced Productivity Tools</p>
  </div>
  <div style="padding: 30px; background: #f8fafc;">
    <h2 style="color: #1e293b; margin-bottom: 20px;">Hi {{.Name}}!</h2>
    <p style="color: #475569; line-height: 1.6; margin-bottom: 20px;">
      Thank you for joining the NeuroBit community! You're now part of a growing group of
      students, creators, and professionals who are supercharging their productivity with AI.
    </p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #0ea5e9;">
      <h3 style="color: #1e293b; margin: 0 0 10px 0;">What's Next?</h3>
      <ul style="color: #475569; margin: 0; padding-left: 20px;">
        <li>Get early access to new AI tools and templates</li>
        <li>Receive weekly productivity tips and AI hacks</li>
        <li>Join exclusive member-only discounts</li>
        <li>Connect with fellow productivity enthusiasts</li>
      </ul>
    </div>
    <p style="color: #94a3b8; font-size: 12px;">&copy; {{.Year}} NeuroBit. All rights reserved.</p>
  </div>
</body>
</html>`
