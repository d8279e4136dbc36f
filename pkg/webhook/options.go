package webhook

import (
	"net/http"
	"time"
)

// Result describes a single delivery attempt.
type Result struct {
	StatusCode int
	Duration   time.Duration
	Err        error
}

// DeliveryHook is called after every attempt, including rejected ones.
type DeliveryHook func(Result)

type senderOptions struct {
	timeout        time.Duration
	headers        map[string]string
	httpClient     *http.Client
	secret         string
	circuitBreaker *CircuitBreaker
	onDelivery     DeliveryHook
}

// Option configures a Sender.
type Option func(*senderOptions)

// WithTimeout sets the per-request timeout. Default is 5 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(o *senderOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a static header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *senderOptions) {
		if key != "" && value != "" {
			o.headers[key] = value
		}
	}
}

// WithSigningSecret enables HMAC-SHA256 signing of every payload.
func WithSigningSecret(secret string) Option {
	return func(o *senderOptions) {
		o.secret = secret
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(o *senderOptions) {
		o.circuitBreaker = cb
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *senderOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

func WithDeliveryHook(hook DeliveryHook) Option {
	return func(o *senderOptions) {
		o.onDelivery = hook
	}
}
