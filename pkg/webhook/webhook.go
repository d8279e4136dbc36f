package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/carebridge/opsnotify/pkg/requestid"
)

// Sender posts JSON payloads to a fixed endpoint. Each call makes exactly one
// attempt; callers that need retries wrap it themselves.
type Sender struct {
	endpoint string
	opts     senderOptions
}

// NewSender validates endpoint and returns a Sender for it.
func NewSender(endpoint string, opts ...Option) (*Sender, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, endpoint)
	}

	o := senderOptions{
		timeout: 5 * time.Second,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Sender{endpoint: endpoint, opts: o}, nil
}

// Endpoint returns the configured target URL.
func (s *Sender) Endpoint() string {
	return s.endpoint
}

// Send marshals data to JSON and posts it. Any non-2xx response is an error.
func (s *Sender) Send(ctx context.Context, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	return s.SendRaw(ctx, payload)
}

// SendRaw posts an already encoded JSON payload.
func (s *Sender) SendRaw(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return ErrInvalidPayload
	}

	if cb := s.opts.circuitBreaker; cb != nil && !cb.Allow() {
		s.report(Result{Err: ErrCircuitOpen})
		return ErrCircuitOpen
	}

	start := time.Now()
	status, err := s.post(ctx, payload)
	s.report(Result{StatusCode: status, Duration: time.Since(start), Err: err})

	if cb := s.opts.circuitBreaker; cb != nil {
		if err != nil {
			cb.RecordFailure()
		} else {
			cb.RecordSuccess()
		}
	}
	return err
}

func (s *Sender) post(ctx context.Context, payload []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, errors.Join(ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.opts.headers {
		req.Header.Set(k, v)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	if s.opts.secret != "" {
		sig, err := Sign(s.opts.secret, payload)
		if err != nil {
			return 0, err
		}
		sig.Apply(req.Header)
	}

	resp, err := s.opts.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, errors.Join(ErrTimeout, err)
		}
		return 0, errors.Join(ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func (s *Sender) report(r Result) {
	if s.opts.onDelivery != nil {
		s.opts.onDelivery(r)
	}
}
