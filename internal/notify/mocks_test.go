package notify

import (
	"context"
	"errors"
	"sync"

	"branch-locator/internal/data/entity"
)

type mockEmailSender struct {
	mu        sync.Mutex
	verifyErr error
	failOn    map[string]error
	sent      []EmailMessage
}

func (m *mockEmailSender) Verify(ctx context.Context) error { return m.verifyErr }

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if err, ok := m.failOn[msg.To]; ok {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockEmailSender) Provider() string { return "mock" }

func (m *mockEmailSender) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.To)
	}
	return out
}

// memTokenStore keeps the token in memory and claims to be durable.
type memTokenStore struct {
	mu      sync.Mutex
	cache   *entity.TokenCache
	saveErr error
	saves   int
}

func (s *memTokenStore) Load(ctx context.Context) (*entity.TokenCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil {
		return nil, nil
	}
	c := *s.cache
	return &c, nil
}

func (s *memTokenStore) Save(ctx context.Context, cache *entity.TokenCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	c := *cache
	s.cache = &c
	return nil
}

func (s *memTokenStore) Durable() bool { return true }
func (s *memTokenStore) Name() string  { return "memory" }

var errBoom = errors.New("boom")

func sampleBooking() *entity.Booking {
	return &entity.Booking{
		ID:              "BOOK-20251020-101500-0042",
		CustomerName:    "Nguyễn Văn An",
		CustomerPhone:   "0912345678",
		CustomerEmail:   "an@example.com",
		Service:         "Tư vấn",
		BranchName:      "Vincom Center Bà Triệu",
		BranchAddress:   "191 Bà Triệu, Hai Bà Trưng, Hà Nội",
		BookingDate:     "2025-10-21",
		BookingTime:     "10:30",
		BookingCustomer: "2",
	}
}
