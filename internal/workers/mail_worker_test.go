package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambassador_backend/internal/email"
	"ambassador_backend/internal/logger"
)

type recordingProvider struct {
	mu   sync.Mutex
	sent []*email.Email
	err  error
}

func (p *recordingProvider) Send(msg *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *recordingProvider) Validate() error { return nil }
func (p *recordingProvider) Close() error    { return nil }

func (p *recordingProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func TestMailWorker_SendsQueuedMail(t *testing.T) {
	logger.Init("test")
	provider := &recordingProvider{}
	worker := NewMailWorker(provider, 10)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	for i := 0; i < 3; i++ {
		require.True(t, worker.Enqueue(MailKindVerification, &email.Email{To: []string{"a@example.edu"}}))
	}

	assert.Eventually(t, func() bool { return provider.count() == 3 }, time.Second, 10*time.Millisecond)

	cancel()
	worker.Wait()
}

func TestMailWorker_EnqueueNeverBlocks(t *testing.T) {
	logger.Init("test")
	worker := NewMailWorker(&recordingProvider{}, 1)

	// обработчик не запущен, очередь на одно место
	assert.True(t, worker.Enqueue(MailKindVerification, &email.Email{To: []string{"a@example.edu"}}))

	done := make(chan bool, 1)
	go func() {
		done <- worker.Enqueue(MailKindVerification, &email.Email{To: []string{"b@example.edu"}})
	}()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestMailWorker_FailureDoesNotStopWorker(t *testing.T) {
	logger.Init("test")
	provider := &recordingProvider{err: errors.New("smtp down")}
	worker := NewMailWorker(provider, 10)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	worker.Enqueue(MailKindVerification, &email.Email{To: []string{"a@example.edu"}})

	// после сбоя провайдер снова работает
	time.Sleep(50 * time.Millisecond)
	provider.mu.Lock()
	provider.err = nil
	provider.mu.Unlock()

	worker.Enqueue(MailKindAdminNotice, &email.Email{To: []string{"admin@example.edu"}})
	assert.Eventually(t, func() bool {
		provider.mu.Lock()
		defer provider.mu.Unlock()
		for _, msg := range provider.sent {
			if msg.To[0] == "admin@example.edu" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	cancel()
	worker.Wait()
}

func TestMailWorker_DrainsOnShutdown(t *testing.T) {
	logger.Init("test")
	provider := &recordingProvider{}
	worker := NewMailWorker(provider, 10)

	worker.Enqueue(MailKindVerification, &email.Email{To: []string{"a@example.edu"}})
	worker.Enqueue(MailKindVerification, &email.Email{To: []string{"b@example.edu"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker.Start(ctx)
	worker.Wait()

	assert.Equal(t, 2, provider.count())
}
