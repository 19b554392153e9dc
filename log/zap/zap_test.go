package zap

import (
	"errors"
	"testing"

	"github.com/unkn0wn-root/veganify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("cache entry evicted", veganify.Fields{"cache": "peta", "reason": "expired"})
	l.Info("client ready", nil)
	l.Warn("request failed", veganify.Fields{"status": 503, "err": errors.New("busy")})
	l.Error("boom", veganify.Fields{})

	entries := logs.AllUntimed()
	if len(entries) != 4 {
		t.Fatalf("entries=%d want 4", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Fatalf("entry %d level=%v want %v", i, e.Level, wantLevels[i])
		}
		if e.LoggerName != "veganify" {
			t.Fatalf("entry %d logger=%q", i, e.LoggerName)
		}
	}

	ctx := entries[0].ContextMap()
	if ctx["cache"] != "peta" || ctx["reason"] != "expired" {
		t.Fatalf("debug fields: %v", ctx)
	}
	warn := entries[2].ContextMap()
	if warn["err"] != "busy" {
		t.Fatalf("err field: %v", warn["err"])
	}
	if warn["status"] != int64(503) {
		t.Fatalf("status field: %#v", warn["status"])
	}
	if len(entries[1].Context) != 0 {
		t.Fatalf("nil fields produced context: %v", entries[1].Context)
	}
}

func TestRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := ZapLogger{L: zap.New(core)}
	l.Debug("hidden", nil)
	l.Info("hidden", nil)
	l.Warn("shown", nil)
	if logs.Len() != 1 {
		t.Fatalf("entries=%d want 1", logs.Len())
	}
}
