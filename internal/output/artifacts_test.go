package output

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteFileCreatesDirAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dist", "index.html")
	if err := WriteFile(path, []byte("first version")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "second" {
		t.Fatalf("content=%q want=%q", b, "second")
	}
}

func TestWriteChecksumsSortedByPath(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "index.html")
	b := filepath.Join(dir, "_headers")
	if err := WriteFile(a, []byte("<p>x</p>")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(b, []byte("/*")); err != nil {
		t.Fatal(err)
	}
	sums := filepath.Join(dir, "checksums.sha256")
	if err := WriteChecksums(sums, []string{a, "", b}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(sums)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if !strings.HasSuffix(lines[0], "  _headers") || !strings.HasSuffix(lines[1], "  index.html") {
		t.Fatalf("unexpected order: %v", lines)
	}
	want, err := FileSHA256(a)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(lines[1], want) {
		t.Fatalf("line=%s want prefix %s", lines[1], want)
	}
}

func TestWriteChecksumsMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	err := WriteChecksums(filepath.Join(dir, "checksums.sha256"), []string{filepath.Join(dir, "missing")})
	if err == nil || !strings.Contains(err.Error(), "checksum read failed") {
		t.Fatalf("expected checksum error, got %v", err)
	}
}

func TestAuditLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "build.run.log")
	l, err := NewAuditLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	l.now = func() time.Time { return fixed }
	l.Info("run.start", map[string]interface{}{"variant": "strict"})
	l.Warn("run.extract.warning", nil)
	l.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var events []AuditEvent
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var evt AuditEvent
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		events = append(events, evt)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, evt := range events {
		if evt.Timestamp != "2026-03-01T08:30:00Z" {
			t.Fatalf("timestamp=%s want UTC 2026-03-01T08:30:00Z", evt.Timestamp)
		}
	}
	if events[0].Level != "INFO" || events[0].Fields["variant"] != "strict" {
		t.Fatalf("event[0]=%+v", events[0])
	}
	if events[1].Level != "WARN" || events[1].Fields != nil {
		t.Fatalf("event[1]=%+v", events[1])
	}
}

func TestNilAuditLoggerIsNoop(t *testing.T) {
	var l *AuditLogger
	l.Info("ignored", nil)
	l.Close()
}
