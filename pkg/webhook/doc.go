// Package webhook posts signed JSON payloads to an HTTP endpoint.
//
// A Sender makes a single attempt per call. Static headers, HMAC-SHA256
// signing and a circuit breaker are configured through options:
//
//	sender, err := webhook.NewSender("https://gateway.internal/notify",
//	    webhook.WithHeader("X-Internal-Secret", secret),
//	    webhook.WithSigningSecret(secret),
//	    webhook.WithCircuitBreaker(webhook.NewCircuitBreaker(5, 2, 30*time.Second)),
//	)
//	if err != nil {
//	    return err
//	}
//	err = sender.Send(ctx, event)
//
// Receivers check the signature with Verify, passing the raw request body and
// headers. The signed string is "<unix-timestamp>.<body>".
package webhook
