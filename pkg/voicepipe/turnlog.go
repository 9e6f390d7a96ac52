package voicepipe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/vaani/pkg/kv"
)

// DefaultTurnLimit is the number of turns kept when no limit is given.
const DefaultTurnLimit = 50

var turnPrefix = kv.Key{"turns"}

// TurnLog keeps the most recent turns in a kv.Store as msgpack records.
// Keys embed an inverted timestamp so that listing yields newest first.
type TurnLog struct {
	store kv.Store
	limit int

	// mu serializes append+trim so concurrent turns cannot over-trim.
	mu sync.Mutex
}

// NewTurnLog returns a log over store keeping at most limit turns.
func NewTurnLog(store kv.Store, limit int) *TurnLog {
	if limit <= 0 {
		limit = DefaultTurnLimit
	}
	return &TurnLog{store: store, limit: limit}
}

// Limit returns the retention limit.
func (l *TurnLog) Limit() int { return l.limit }

func turnKey(t *Turn) kv.Key {
	inv := math.MaxInt64 - t.CreatedAt.UnixNano()
	return kv.Key{"turns", fmt.Sprintf("%019d-%s", inv, t.ID)}
}

// Append stores t, replacing an earlier record of the same turn, and drops
// the oldest turns beyond the limit.
func (l *TurnLog) Append(ctx context.Context, t *Turn) error {
	if t.ID == "" {
		return errors.New("voicepipe: turn id is required")
	}
	data, err := msgpack.Marshal(t)
	if err != nil {
		return fmt.Errorf("voicepipe: encode turn: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Set(ctx, turnKey(t), data); err != nil {
		return fmt.Errorf("voicepipe: store turn: %w", err)
	}

	var stale []kv.Key
	n := 0
	for e, err := range l.store.List(ctx, turnPrefix) {
		if err != nil {
			return fmt.Errorf("voicepipe: scan turns: %w", err)
		}
		n++
		if n > l.limit {
			stale = append(stale, e.Key)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := l.store.BatchDelete(ctx, stale); err != nil {
		return fmt.Errorf("voicepipe: trim turns: %w", err)
	}
	return nil
}

// List returns up to n turns, newest first. n <= 0 returns all of them.
func (l *TurnLog) List(ctx context.Context, n int) ([]Turn, error) {
	var turns []Turn
	for e, err := range l.store.List(ctx, turnPrefix) {
		if err != nil {
			return nil, fmt.Errorf("voicepipe: scan turns: %w", err)
		}
		var t Turn
		if err := msgpack.Unmarshal(e.Value, &t); err != nil {
			return nil, fmt.Errorf("voicepipe: decode turn %s: %w", e.Key, err)
		}
		turns = append(turns, t)
		if n > 0 && len(turns) == n {
			break
		}
	}
	return turns, nil
}

// Clear removes every recorded turn.
func (l *TurnLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var keys []kv.Key
	for e, err := range l.store.List(ctx, turnPrefix) {
		if err != nil {
			return fmt.Errorf("voicepipe: scan turns: %w", err)
		}
		keys = append(keys, e.Key)
	}
	if len(keys) == 0 {
		return nil
	}
	return l.store.BatchDelete(ctx, keys)
}
