package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santan-uz/santan-bot/internal/jobs"
	"github.com/santan-uz/santan-bot/internal/texts"
)

type fakeNotifier struct {
	sent    map[int64]string
	failFor int64
}

func (f *fakeNotifier) Send(ctx context.Context, chatID int64, text string, opts ...interface{}) error {
	if chatID == f.failFor {
		return errors.New("chat not found")
	}
	if f.sent == nil {
		f.sent = make(map[int64]string)
	}
	f.sent[chatID] = text
	return nil
}

func (f *fakeNotifier) SendPhoto(ctx context.Context, chatID int64, photo, caption string, opts ...interface{}) error {
	return nil
}

func (f *fakeNotifier) SendVenue(ctx context.Context, chatID int64, lat, lon float64, title, address string) error {
	return nil
}

func newBroadcastHandler(t *testing.T, notifier *fakeNotifier, groups []int64) *BroadcastHandler {
	t.Helper()
	txt, err := texts.Load()
	require.NoError(t, err)
	return NewBroadcastHandler(notifier, txt, groups, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessTaskDeliversMorningBroadcast(t *testing.T) {
	notifier := &fakeNotifier{}
	h := newBroadcastHandler(t, notifier, []int64{-100, -200})

	task, err := jobs.NewMorningBroadcastTask()
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, notifier.sent, 2)
	assert.Contains(t, notifier.sent[-100], "Assalomu alaykum")
	assert.Equal(t, notifier.sent[-100], notifier.sent[-200])
}

func TestProcessTaskEveningUsesEveningText(t *testing.T) {
	notifier := &fakeNotifier{}
	h := newBroadcastHandler(t, notifier, []int64{-100})

	task, err := jobs.NewEveningBroadcastTask()
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Contains(t, notifier.sent[-100], "Tuningiz xayrli")
}

func TestProcessTaskSkipsFailedGroup(t *testing.T) {
	notifier := &fakeNotifier{failFor: -100}
	h := newBroadcastHandler(t, notifier, []int64{-100, -200})

	task, err := jobs.NewMorningBroadcastTask()
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent, int64(-200))
}

func TestProcessTaskRejectsGarbagePayload(t *testing.T) {
	notifier := &fakeNotifier{}
	h := newBroadcastHandler(t, notifier, []int64{-100})

	task := asynq.NewTask(jobs.TaskTypeMorningBroadcast, []byte("{not json"))
	assert.Error(t, h.ProcessTask(context.Background(), task))
	assert.Empty(t, notifier.sent)
}
