package config

import (
	"bytes"
	"context"
	"regexp"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := logOutput
	logOutput = buf
	t.Cleanup(func() { logOutput = prev })
	return buf
}

func TestLogLineFormat(t *testing.T) {

	buf := captureLog(t)
	ctx := SetContextCorrelationId(context.Background(), "req-1")

	LogInfo(ctx, "request started: GET /api/vitals")

	line := regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \(vitals\) INFO \+0\.\ds \[[a-zA-Z0-9]{8}-req-1\] request started: GET /api/vitals\n$`)
	if !line.MatchString(buf.String()) {
		t.Errorf("unexpected log line %q", buf.String())
	}
}

func TestLogLevels(t *testing.T) {

	var TestCases = []struct {
		description string
		debug       string
		log         func(context.Context, string)
		written     bool
	}{
		{"info always", "false", LogInfo, true},
		{"error always", "false", LogError, true},
		{"debug off", "false", LogDebug, false},
		{"debug on", "true", LogDebug, true},
	}

	for _, tc := range TestCases {
		buf := captureLog(t)
		t.Setenv("VITALS_DEBUG", tc.debug)

		tc.log(SetContextCorrelationId(context.Background(), "x"), "msg")

		if (buf.Len() > 0) != tc.written {
			t.Errorf("%s: written=%v, got %q", tc.description, tc.written, buf.String())
		}
	}
}

func TestLogWithoutContextValues(t *testing.T) {

	buf := captureLog(t)
	LogError(context.Background(), "boom")

	if !bytes.Contains(buf.Bytes(), []byte("ERROR +0.0s [no-id] boom")) {
		t.Errorf("unexpected log line %q", buf.String())
	}
}
