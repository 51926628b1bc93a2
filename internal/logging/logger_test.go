package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	savedLevel := GetLogLevel()
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		baseLogger = saved
		SetLogLevel(levelString(savedLevel))
	})
	return &buf
}

func levelString(l Level) string {
	for name, v := range levelNames {
		if v == l && name != "warning" {
			return name
		}
	}
	return "info"
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	if err := SetLogLevel("info"); err != nil {
		t.Fatal(err)
	}

	msg := "[meter 3f2a] period done rate=58.9 (98.2% of max)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(98.2% of max)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "MISSING") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t)
	if err := SetLogLevel("warn"); err != nil {
		t.Fatal(err)
	}
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("messages below warn leaked: %s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("expected warn and error lines, got: %s", out)
	}
}

func TestSetLogLevelUnknown(t *testing.T) {
	captureLogs(t)
	SetLogLevel("error")
	if err := SetLogLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if GetLogLevel() != LevelError {
		t.Fatalf("level changed on bad input: %v", GetLogLevel())
	}
	if err := SetLogLevel(" Warning "); err != nil || GetLogLevel() != LevelWarn {
		t.Fatalf("warning alias not accepted: err=%v level=%v", err, GetLogLevel())
	}
}
