// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package mail

import (
	"fmt"
	"html"
)

/*
PasswordResetBody renders the HTML body of the password reset email.

Parameters:
  - username: string (display name, HTML-escaped before interpolation)
  - resetURL: string (frontend link carrying the plaintext reset token)

Returns:
  - string: HTML email body
*/
func PasswordResetBody(username, resetURL string) string {
	safeUsername := html.EscapeString(username)
	safeURL := html.EscapeString(resetURL)

	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
            <h2 style="color: #333;">Password Reset Request</h2>
            <p>Hello %s,</p>
            <p>We received a request to reset your password. If you didn't make this request, you can safely ignore this email.</p>
            <p>To reset your password, click the button below:</p>
            <div style="text-align: center; margin: 30px 0;">
                <a href="%s"
                   style="background-color: #4CAF50; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">
                    Reset Password
                </a>
            </div>
            <p>Or copy and paste this link in your browser:</p>
            <p style="color: #666;">%s</p>
            <p>This link will expire in 5 minutes for security reasons.</p>
            <p>If you didn't request this, please ignore this email or contact support if you have concerns.</p>
            <hr style="border: 1px solid #eee; margin: 20px 0;">
            <p style="color: #666; font-size: 12px;">This is an automated email, please do not reply.</p>
        </div>`, safeUsername, safeURL, safeURL)
}
