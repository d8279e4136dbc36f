package alerts_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/carebridge/opsnotify/svc/alerts"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, d alerts.Draft) (alerts.Notification, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(alerts.Notification), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, opts alerts.ListOptions) ([]alerts.Notification, error) {
	args := m.Called(ctx, opts)
	if v := args.Get(0); v != nil {
		return v.([]alerts.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

type published struct {
	Notification alerts.Notification
	Role         string
}

// recordingFanout remembers every publish and optionally fails.
type recordingFanout struct {
	mu   sync.Mutex
	got  []published
	fail error
}

func (f *recordingFanout) Publish(_ context.Context, n alerts.Notification, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, published{Notification: n, Role: role})
	return f.fail
}

func (f *recordingFanout) Published() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.got...)
}

type submitted struct {
	Actor alerts.Actor
	Draft alerts.Draft
}

// recordingSubmitter captures drafts without running the pipeline.
type recordingSubmitter struct {
	mu  sync.Mutex
	got []submitted
}

func (s *recordingSubmitter) Dispatch(_ context.Context, actor alerts.Actor, d alerts.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, submitted{Actor: actor, Draft: d})
}

func (s *recordingSubmitter) Last() submitted {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.got[len(s.got)-1]
}
