// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

/*
Package mail delivers transactional email for the Rydio platform.

# Architecture

The domain layer depends only on the [Notifier] interface. The SMTP
implementation lives alongside it so transport details (auth, MIME framing)
never leak into business logic.
*/
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Notifier defines the contract for sending transactional email.
type Notifier interface {

	/*
		Send delivers the message to its recipient.

		Parameters:
		  - context: context.Context
		  - message: Message

		Returns:
		  - error: Delivery failures
	*/
	Send(context context.Context, message Message) error
}
