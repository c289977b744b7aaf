package auth

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password}
}

func (m *SMTPMailer) SendResetEmail(to string, resetLink string) error {
	message := fmt.Sprintf("<html><body><p>To reset your password follow this <a href='%s'>link</a>.</p></body></html>", resetLink)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password recovery")
	msg.SetBody("text/html", message)

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("ошибка отправки письма: %v", err)
	}
	return nil
}
