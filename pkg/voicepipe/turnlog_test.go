package voicepipe

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/haivivi/vaani/pkg/kv"
)

func mkTurn(i int, base time.Time) *Turn {
	return &Turn{
		ID:         fmt.Sprintf("turn-%d", i),
		CreatedAt:  base.Add(time.Duration(i) * time.Second),
		Mode:       ModeConverse,
		SourceLang: "hi",
		TargetLang: "hi",
		Transcript: fmt.Sprintf("question %d", i),
		Reply:      fmt.Sprintf("answer %d", i),
	}
}

func TestTurnLog_newestFirstAndTrim(t *testing.T) {
	ctx := context.Background()
	b, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	for name, store := range map[string]kv.Store{"memory": kv.NewMemory(), "badger": b} {
		t.Run(name, func(t *testing.T) {
			log := NewTurnLog(store, 3)
			base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			for _, i := range []int{2, 0, 4, 1, 3} {
				if err := log.Append(ctx, mkTurn(i, base)); err != nil {
					t.Fatalf("Append(%d): %v", i, err)
				}
			}

			turns, err := log.List(ctx, 0)
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, tr := range turns {
				ids = append(ids, tr.ID)
			}
			want := "[turn-4 turn-3 turn-2]"
			if got := fmt.Sprint(ids); got != want {
				t.Errorf("List() = %s, want %s", got, want)
			}
			if !turns[0].CreatedAt.Equal(base.Add(4 * time.Second)) {
				t.Errorf("CreatedAt = %v", turns[0].CreatedAt)
			}
			if turns[0].Reply != "answer 4" {
				t.Errorf("Reply = %q", turns[0].Reply)
			}

			top, err := log.List(ctx, 1)
			if err != nil || len(top) != 1 || top[0].ID != "turn-4" {
				t.Errorf("List(1) = %+v, %v", top, err)
			}

			if err := log.Clear(ctx); err != nil {
				t.Fatal(err)
			}
			if turns, _ := log.List(ctx, 0); len(turns) != 0 {
				t.Errorf("after Clear: %d turns", len(turns))
			}
		})
	}
}

func TestTurnLog_appendReplaces(t *testing.T) {
	ctx := context.Background()
	log := NewTurnLog(kv.NewMemory(), 0)
	if log.Limit() != DefaultTurnLimit {
		t.Errorf("Limit() = %d, want %d", log.Limit(), DefaultTurnLimit)
	}

	turn := mkTurn(1, time.Now())
	log.Append(ctx, turn)
	turn.AudioPath = "response.wav"
	if err := log.Append(ctx, turn); err != nil {
		t.Fatal(err)
	}
	turns, _ := log.List(ctx, 0)
	if len(turns) != 1 || turns[0].AudioPath != "response.wav" {
		t.Errorf("turns = %+v", turns)
	}
}

func TestTurnLog_requiresID(t *testing.T) {
	log := NewTurnLog(kv.NewMemory(), 1)
	if err := log.Append(context.Background(), &Turn{}); err == nil {
		t.Error("expected error for turn without id")
	}
}
