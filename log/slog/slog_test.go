package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"testing"

	"github.com/unkn0wn-root/veganify"
)

func TestWritesLevelsAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))}

	l.Debug("request done", veganify.Fields{"status": 200, "op": "peta"})
	l.Error("boom", nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("lines=%d want 2: %s", len(lines), buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["level"] != "DEBUG" || first["msg"] != "request done" || first["op"] != "peta" || first["status"] != float64(200) {
		t.Fatalf("first line: %v", first)
	}
	// Keys are emitted in sorted order.
	if bytes.Index(lines[0], []byte(`"op"`)) > bytes.Index(lines[0], []byte(`"status"`)) {
		t.Fatalf("fields not sorted: %s", lines[0])
	}
	if !bytes.Contains(lines[1], []byte(`"level":"ERROR"`)) {
		t.Fatalf("second line: %s", lines[1])
	}
}
