package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	mu    sync.Mutex
	names []string
	fail  map[string]bool
	block chan struct{}
}

func (f *fakeSender) Invoke(ctx context.Context, name string, payload interface{}) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	if f.fail[name] {
		return errors.New("edge function unavailable")
	}
	return nil
}

func (f *fakeSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

func TestOutbox_DeliversInOrder(t *testing.T) {
	sender := &fakeSender{}
	outbox := NewOutbox(sender, zap.NewNop(), 8)
	outbox.Start(context.Background())

	outbox.Enqueue(Notification{Kind: FunctionOrderConfirmation})
	outbox.Enqueue(Notification{Kind: FunctionAdminNotification})
	outbox.Close()

	assert.Equal(t, []string{FunctionOrderConfirmation, FunctionAdminNotification}, sender.sent())
}

func TestOutbox_FailureIsLoggedNotRetried(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sender := &fakeSender{fail: map[string]bool{FunctionStatusEmail: true}}
	outbox := NewOutbox(sender, zap.New(core), 8)
	outbox.Start(context.Background())

	outbox.Enqueue(Notification{Kind: FunctionStatusEmail})
	outbox.Enqueue(Notification{Kind: FunctionWelcomeEmail})
	outbox.Close()

	assert.Equal(t, []string{FunctionStatusEmail, FunctionWelcomeEmail}, sender.sent())

	failures := logs.FilterMessage("Failed to send notification").All()
	if assert.Len(t, failures, 1) {
		assert.Equal(t, FunctionStatusEmail, failures[0].ContextMap()["kind"])
	}
}

func TestOutbox_DropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	block := make(chan struct{})
	sender := &fakeSender{block: block}
	outbox := NewOutbox(sender, zap.New(core), 1)

	// nothing drains the queue until Start, so the second enqueue overflows
	outbox.Enqueue(Notification{Kind: FunctionOrderConfirmation})
	outbox.Enqueue(Notification{Kind: FunctionAdminNotification})

	assert.Equal(t, 1, logs.FilterMessage("Outbox full, dropping notification").Len())

	close(block)
	outbox.Start(context.Background())
	outbox.Close()
	assert.Equal(t, []string{FunctionOrderConfirmation}, sender.sent())
}

func TestOutbox_EnqueueAfterClose(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sender := &fakeSender{}
	outbox := NewOutbox(sender, zap.New(core), 4)
	outbox.Start(context.Background())
	outbox.Close()

	assert.NotPanics(t, func() {
		outbox.Enqueue(Notification{Kind: FunctionWelcomeEmail})
	})
	assert.Empty(t, sender.sent())
	assert.Equal(t, 1, logs.FilterMessage("Outbox closed, dropping notification").Len())

	// closing twice is harmless
	assert.NotPanics(t, outbox.Close)
}

func TestGetNotifier_DefaultDiscards(t *testing.T) {
	previous := notifierInstance
	defer SetNotifier(previous)

	SetNotifier(nil)
	assert.NotPanics(t, func() {
		GetNotifier().Enqueue(Notification{Kind: FunctionWelcomeEmail})
	})

	mock := NewMockNotifier()
	mock.SetAsMockForTesting()
	GetNotifier().Enqueue(Notification{Kind: FunctionWelcomeEmail})
	assert.Equal(t, []string{FunctionWelcomeEmail}, mock.Kinds())
}
