// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package mail

import (
	"context"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"
)

// SMTPNotifier implements Notifier over plain SMTP.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTPNotifier creates a Notifier backed by the given SMTP relay.
func NewSMTPNotifier(host string, port int, username, password string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

/*
Send delivers the message through the configured relay.

Description: Frames the message as a MIME HTML email and submits it with
smtp.SendMail. Authentication is used only when a username is configured,
so local development relays without auth keep working.

Parameters:
  - context: context.Context
  - message: Message

Returns:
  - error: Address parsing or delivery failures
*/
func (notifier *SMTPNotifier) Send(context context.Context, message Message) error {
	if err := context.Err(); err != nil {
		return fmt.Errorf("mail_send_canceled: %w", err)
	}

	// Envelope sender must be a bare address even when From carries a display name.
	fromAddress, err := mail.ParseAddress(message.From)
	if err != nil {
		return fmt.Errorf("mail_invalid_from_address: %w", err)
	}
	toAddress, err := mail.ParseAddress(message.To)
	if err != nil {
		return fmt.Errorf("mail_invalid_to_address: %w", err)
	}

	var auth smtp.Auth
	if notifier.username != "" {
		auth = smtp.PlainAuth("", notifier.username, notifier.password, notifier.host)
	}

	payload := buildMIME(message)
	address := fmt.Sprintf("%s:%d", notifier.host, notifier.port)

	if err := smtp.SendMail(address, auth, fromAddress.Address, []string{toAddress.Address}, payload); err != nil {
		return fmt.Errorf("mail_send_failed: %w", err)
	}

	return nil
}

// buildMIME frames the message with the headers required for HTML rendering.
func buildMIME(message Message) []byte {
	var builder strings.Builder
	builder.WriteString("From: " + message.From + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + message.Subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(message.HTMLBody)
	builder.WriteString("\r\n")
	return []byte(builder.String())
}
