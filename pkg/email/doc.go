// Package email sends transactional mail through Postmark, or writes it to
// disk with DevSender when no Postmark token is configured.
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "oncall@example.com",
//	    Subject:  "[CRITICAL] Database connection pool exhausted",
//	    BodyHTML: body,
//	    Tag:      "alert-escalation",
//	})
//
// Validation failures wrap ErrInvalidParams, provider failures wrap
// ErrFailedToSendEmail.
package email
