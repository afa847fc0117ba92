package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)
	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("Info logged below the configured level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("Warn missing from output: %q", out)
	}
}

func TestWithAttachesFieldsToEveryLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)
	scoped := l.With("job", "job-7").With("stage", "walk")
	scoped.Info("started")

	out := buf.String()
	if !strings.Contains(out, "job=job-7") || !strings.Contains(out, "stage=walk") {
		t.Errorf("scoped logger output missing fields: %q", out)
	}
	if !strings.Contains(out, "started") {
		t.Errorf("scoped logger output missing message: %q", out)
	}
}

func TestWithChildSharesParentLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)
	scoped := l.With("job", "job-1")
	scoped.Info("quiet")
	l.SetLevel(LevelInfo)
	scoped.Info("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("scoped logger logged below its parent's original level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("scoped logger did not observe the parent's level change: %q", out)
	}
}

func TestForJobScopesTheDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	SetGlobalLevel(LevelInfo)
	defer SetGlobalOutput(os.Stderr)

	ForJob("job-42").Info("running")

	if !strings.Contains(buf.String(), "job=job-42") {
		t.Errorf("ForJob output missing job field: %q", buf.String())
	}
}
