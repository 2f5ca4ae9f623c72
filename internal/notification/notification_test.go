package notification

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testService(email, whatsapp Provider) *Service {
	cfg := ServiceConfig{
		Workers:       2,
		BufferSize:    16,
		RetryAttempts: 2,
		RetryDelay:    5 * time.Millisecond,
	}
	return NewService(email, whatsapp, cfg, zap.NewNop())
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestServiceDeliversEmail(t *testing.T) {
	email := NewMockProvider()
	svc := testService(email, NewMockProvider())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Stop()

	svc.Enqueue(&Message{
		Channel:   ChannelEmail,
		Recipient: "manager@example.org",
		Subject:   "Leave request",
		Body:      "A leave request awaits your approval.",
	})

	waitFor(t, time.Second, func() bool { return len(email.Sent()) == 1 })

	sent := email.Sent()[0]
	if sent.Status != StatusSent {
		t.Errorf("expected status sent, got %s", sent.Status)
	}
	if sent.SentAt == nil {
		t.Error("expected sentAt to be set")
	}

	stats := svc.GetStats()
	if stats.TotalSent != 1 {
		t.Errorf("expected 1 sent, got %d", stats.TotalSent)
	}
}

func TestServiceRoutesByChannel(t *testing.T) {
	email := NewMockProvider()
	whatsapp := NewMockProvider()
	svc := testService(email, whatsapp)

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Stop()

	svc.Enqueue(&Message{Channel: ChannelEmail, Recipient: "a@example.org", Body: "x"})
	svc.Enqueue(&Message{Channel: ChannelWhatsApp, Recipient: "+919800000000", Body: "y"})

	waitFor(t, time.Second, func() bool {
		return len(email.Sent()) == 1 && len(whatsapp.Sent()) == 1
	})
}

func TestServiceMarksFailedAfterRetries(t *testing.T) {
	email := NewMockProvider()
	email.SetFailOnSend(true)
	svc := testService(email, NewMockProvider())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Stop()

	msg := &Message{Channel: ChannelEmail, Recipient: "a@example.org", Body: "x"}
	svc.Enqueue(msg)

	waitFor(t, time.Second, func() bool { return svc.GetStats().TotalFailed == 1 })

	if msg.Status != StatusFailed {
		t.Errorf("expected status failed, got %s", msg.Status)
	}
	if msg.RetryCount != 2 {
		t.Errorf("expected 2 attempts, got %d", msg.RetryCount)
	}
	if msg.ErrorMessage == "" {
		t.Error("expected error message to be recorded")
	}
}

func TestServiceUnknownChannelFails(t *testing.T) {
	svc := testService(NewMockProvider(), NewMockProvider())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Stop()

	// Retry loop runs its course, then the message is marked failed.
	svc.Enqueue(&Message{Channel: Channel("pager"), Recipient: "x", Body: "y"})

	waitFor(t, time.Second, func() bool { return svc.GetStats().TotalFailed == 1 })
}

func TestServiceDoubleStart(t *testing.T) {
	svc := testService(NewMockProvider(), NewMockProvider())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer svc.Stop()

	if err := svc.Start(context.Background()); err == nil {
		t.Error("expected error on second start")
	}
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	// Service never started, so nothing drains the buffer.
	cfg := ServiceConfig{Workers: 1, BufferSize: 1, RetryAttempts: 1, RetryDelay: time.Millisecond}
	svc := NewService(NewMockProvider(), NewMockProvider(), cfg, zap.NewNop())

	svc.Enqueue(&Message{Channel: ChannelEmail, Recipient: "a@example.org", Body: "x"})

	done := make(chan struct{})
	go func() {
		svc.Enqueue(&Message{Channel: ChannelEmail, Recipient: "b@example.org", Body: "y"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full buffer")
	}

	// A dropped message counts as failed.
	stats := svc.GetStats()
	if stats.TotalFailed != 1 {
		t.Errorf("total failed = %d, want 1", stats.TotalFailed)
	}
	if stats.ByChannel[ChannelEmail] != 1 {
		t.Errorf("email attempts = %d, want 1", stats.ByChannel[ChannelEmail])
	}
}
