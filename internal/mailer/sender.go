package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers a rendered message. The SMTP implementation is the
// only transport; tests plug in a recorder.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	Addr string // host:port
	From string
	Auth smtp.Auth
}

func (s *SMTPSender) Send(to, subject, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	return smtp.SendMail(s.Addr, s.Auth, s.From, []string{to}, []byte(b.String()))
}
