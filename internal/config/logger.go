package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// logOutput receives every log line
var logOutput io.Writer = os.Stdout

func LogInfo(ctx context.Context, msg string) {
	writeToLog(ctx, "INFO", msg)
}

func LogError(ctx context.Context, msg string) {
	writeToLog(ctx, "ERROR", msg)
}

// LogDebug writes only when the context was tagged with VITALS_DEBUG set
func LogDebug(ctx context.Context, msg string) {
	if GetContextDebug(ctx) {
		writeToLog(ctx, "DEBUG", msg)
	}
}

// 2024/01/15 12:00:00 (vitals) INFO +0.0s [aB3dE5fG-req-id] msg
func writeToLog(ctx context.Context, severity string, msg string) {
	fmt.Fprintf(logOutput, "%s (vitals) %s +%s [%s] %s\n",
		time.Now().UTC().Format("2006/01/02 15:04:05"),
		severity,
		sinceCreated(ctx),
		GetContextCorrelationId(ctx),
		msg)
}

func sinceCreated(ctx context.Context) string {
	created := GetContextTimeCreated(ctx)
	if created == -1 {
		return "0.0s"
	}
	return fmt.Sprintf("%.1fs", time.Since(time.Unix(0, created)).Seconds())
}
