package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigureAndCurrent(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 3 * time.Second, Long: time.Minute})
	got := Current()
	want := Config{Ping: DefaultPing, Short: 3 * time.Second, Medium: DefaultMedium, Long: time.Minute}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
	if Short() != 3*time.Second || Long() != time.Minute {
		t.Errorf("getters disagree with Current: short=%v long=%v", Short(), Long())
	}

	Reset()
	if Current() != (Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}) {
		t.Errorf("Reset did not restore defaults: %+v", Current())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, log, "publish admissions")
	<-ctx.Done()
	cancel()

	entries := logs.FilterMessage("operation timed out").All()
	if len(entries) != 1 {
		t.Fatalf("got %d timeout warnings, want 1", len(entries))
	}
	if op := entries[0].ContextMap()["operation"]; op != "publish admissions" {
		t.Errorf("operation = %v", op)
	}
}

func TestWithTimeout_QuietWhenFinishedInTime(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	_, cancel := WithTimeout(context.Background(), time.Minute, zap.New(core), "submit application")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}
