package notify

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	if _, ok := r.Last(); ok {
		t.Fatal("Last on empty recorder should be false")
	}
	r.Notify(context.Background(), Notification{Level: LevelSuccess, Message: "one"})
	r.Notify(context.Background(), Notification{Level: LevelError, Message: "two"})
	last, ok := r.Last()
	if !ok || last.Message != "two" || last.Level != LevelError {
		t.Errorf("Last = %+v, %v", last, ok)
	}
	if len(r.All()) != 2 {
		t.Errorf("All len = %d, want 2", len(r.All()))
	}
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Multi{a, nil, b}.Notify(context.Background(), Notification{Message: "hi"})
	if len(a.All()) != 1 || len(b.All()) != 1 {
		t.Errorf("fan-out counts a=%d b=%d", len(a.All()), len(b.All()))
	}
}

func TestZapNotifier_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewZapNotifier(zap.New(core))
	ctx := context.Background()
	n.Notify(ctx, Notification{Level: LevelSuccess, Message: "Successfully logged in!", ClientID: "c1", UserID: "e1"})
	n.Notify(ctx, Notification{Level: LevelError, Message: "Email already in use", ClientID: "c1"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].Message != "Successfully logged in!" {
		t.Errorf("first entry = %v %q", entries[0].Level, entries[0].Message)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("error notification level = %v, want warn", entries[1].Level)
	}
	if entries[0].ContextMap()["user_id"] != "e1" {
		t.Errorf("user_id field = %v", entries[0].ContextMap()["user_id"])
	}
}
