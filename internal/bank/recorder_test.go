package bank

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Ajay05krish/BankingApplication/internal/domain"
)

type detailSink struct {
	mu       sync.Mutex
	payloads []detailPayload
}

func (s *detailSink) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/transaction/details", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var p detailPayload
		assert.NoError(t, json.Unmarshal(body, &p))

		s.mu.Lock()
		s.payloads = append(s.payloads, p)
		s.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
	}
}

func (s *detailSink) received() []detailPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]detailPayload(nil), s.payloads...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestDetailRecorder_Delivers(t *testing.T) {
	sink := &detailSink{}
	srv := httptest.NewServer(sink.handler(t))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := NewDetailRecorder(srv.URL, 2, 16, time.Second, 2, slog.Default())
	rec.Start(ctx)

	accountID := uuid.New()
	rec.Record(domain.TransactionDetail{
		AccountNumber:   accountID,
		TransactionType: domain.DetailTypeDeposit,
		Amount:          2500,
		TransactionDate: time.Now().UTC(),
		Status:          "Success",
	})

	waitFor(t, func() bool { return len(sink.received()) == 1 })

	got := sink.received()[0]
	assert.Equal(t, accountID.String(), got.AccountNumber)
	assert.Equal(t, "Deposit", got.TransactionType)
	assert.Equal(t, "25.00", got.Amount)
	assert.Equal(t, "Success", got.Status)

	cancel()
	rec.Wait()
}

func TestDetailRecorder_RetriesServerErrors(t *testing.T) {
	sink := &detailSink{}
	var mu sync.Mutex
	failures := 2
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		shouldFail := failures > 0
		if shouldFail {
			failures--
		}
		mu.Unlock()

		if shouldFail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		sink.handler(t)(w, r)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := NewDetailRecorder(srv.URL, 1, 16, time.Second, 3, slog.Default())
	rec.Start(ctx)

	rec.Record(domain.TransactionDetail{
		AccountNumber:   uuid.New(),
		TransactionType: domain.DetailTypeWithdraw,
		Amount:          100,
		TransactionDate: time.Now().UTC(),
		Status:          "Success",
	})

	waitFor(t, func() bool { return len(sink.received()) == 1 })

	cancel()
	rec.Wait()
}

func TestDetailRecorder_DropsWhenQueueFull(t *testing.T) {
	// No workers started, so nothing drains the queue. With capacity one,
	// the second Record must drop immediately instead of blocking.
	rec := NewDetailRecorder("http://unreachable.invalid", 1, 1, time.Second, 0, slog.Default())

	detail := domain.TransactionDetail{
		AccountNumber:   uuid.New(),
		TransactionType: domain.DetailTypeDeposit,
		Amount:          100,
		TransactionDate: time.Now().UTC(),
		Status:          "Success",
	}

	done := make(chan struct{})
	go func() {
		rec.Record(detail)
		rec.Record(detail)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	assert.Len(t, rec.jobs, 1)
}

func TestDetailRecorder_DeliveryFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := NewDetailRecorder(srv.URL, 1, 16, time.Second, 1, slog.Default())
	rec.Start(ctx)

	rec.Record(domain.TransactionDetail{
		AccountNumber:   uuid.New(),
		TransactionType: domain.DetailTypeDeposit,
		Amount:          100,
		TransactionDate: time.Now().UTC(),
		Status:          "Success",
	})

	// The queue drains even though every delivery fails.
	waitFor(t, func() bool { return len(rec.jobs) == 0 })

	cancel()
	rec.Wait()
}
