package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santan-uz/santan-bot/internal/cart"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMachine() *Machine {
	return NewMachine(NewMemoryStorage(), testLogger(), nil)
}

func TestMachine_UpdateCreatesIdleSession(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()

	sess, err := machine.Update(ctx, 42, func(s *Session) error {
		assert.Equal(t, StepIdle, s.Step)
		s.Step = StepCollectingItems
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StepCollectingItems, sess.Step)

	stored, err := machine.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StepCollectingItems, stored.Step)
}

func TestMachine_UpdateRejectsIllegalTransition(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()

	_, err := machine.Update(ctx, 42, func(s *Session) error {
		s.Step = StepConfirming
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Nothing must have been persisted for the failed update.
	_, err = machine.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMachine_FullDialogueProgression(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()
	userID := int64(7)

	steps := []struct {
		mutate func(*Session)
		want   Step
	}{
		{func(s *Session) { s.Step = StepCollectingItems }, StepCollectingItems},
		{func(s *Session) { s.Items = "2 sovun"; s.Step = StepCollectingAddress }, StepCollectingAddress},
		{func(s *Session) { s.Address = "Chilonzor 5"; s.Step = StepCollectingPhone }, StepCollectingPhone},
		{func(s *Session) { s.Phone = "+998901234567"; s.Step = StepCollectingNote }, StepCollectingNote},
		{func(s *Session) { s.Note = "yo'q"; s.Step = StepConfirming }, StepConfirming},
	}

	for _, step := range steps {
		sess, err := machine.Update(ctx, userID, func(s *Session) error {
			step.mutate(s)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, step.want, sess.Step)
	}

	require.NoError(t, machine.Clear(ctx, userID))
	_, err := machine.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// The "confirm no" rewind intentionally keeps the previously collected
// address, phone, and note on the session until overwritten.
func TestMachine_ConfirmNoRetainsStaleFields(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()
	userID := int64(9)

	_, err := machine.Update(ctx, userID, func(s *Session) error {
		s.Step = StepConfirming
		s.Items = "sovun x2"
		s.Address = "Chilonzor 5"
		s.Phone = "+998901234567"
		s.Note = "eshik oldiga"
		return nil
	})
	require.NoError(t, err)

	sess, err := machine.Update(ctx, userID, func(s *Session) error {
		s.Step = StepCollectingItems
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, StepCollectingItems, sess.Step)
	assert.Equal(t, "Chilonzor 5", sess.Address)
	assert.Equal(t, "+998901234567", sess.Phone)
	assert.Equal(t, "eshik oldiga", sess.Note)
}

func TestMachine_CheckoutBypassesItemCollection(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()

	sess, err := machine.Update(ctx, 11, func(s *Session) error {
		s.Cart = cart.Merge(s.Cart, "soap-1", 2)
		s.Items = "Sovun x2 — 8000 so‘m"
		s.CartTotal = 16000
		s.Step = StepCollectingAddress
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, StepCollectingAddress, sess.Step)
	assert.Equal(t, int64(16000), sess.CartTotal)
}

func TestMachine_ConcurrentSameUserUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()
	userID := int64(77)

	_, err := machine.Update(ctx, userID, func(s *Session) error {
		s.Step = StepCollectingItems
		return nil
	})
	require.NoError(t, err)

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = machine.Update(ctx, userID, func(s *Session) error {
				s.Cart = cart.Merge(s.Cart, "soap-1", 1)
				return nil
			})
		}()
	}

	wg.Wait()

	sess, err := machine.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sess.Cart, 1)
	assert.Equal(t, workers, sess.Cart[0].Qty)
}

func TestMachine_DistinctUsersDoNotShareState(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()

	_, err := machine.Update(ctx, 1, func(s *Session) error {
		s.Step = StepCollectingItems
		s.Items = "user one"
		return nil
	})
	require.NoError(t, err)

	_, err = machine.Update(ctx, 2, func(s *Session) error {
		s.Step = StepCollectingItems
		s.Items = "user two"
		return nil
	})
	require.NoError(t, err)

	first, err := machine.Get(ctx, 1)
	require.NoError(t, err)
	second, err := machine.Get(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, "user one", first.Items)
	assert.Equal(t, "user two", second.Items)
}

func TestMachine_UpdateFnErrorDiscardsMutation(t *testing.T) {
	ctx := context.Background()
	machine := newTestMachine()

	_, err := machine.Update(ctx, 5, func(s *Session) error {
		s.Step = StepCollectingItems
		return nil
	})
	require.NoError(t, err)

	wantErr := assert.AnError
	_, err = machine.Update(ctx, 5, func(s *Session) error {
		s.Items = "should not persist"
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	sess, err := machine.Get(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, sess.Items)
}
