package config

import (
	"context"
	"fmt"
	"log"
	"runtime"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if BoolValue("VITALS_DEBUG") {
		LogInfo(context.Background(), fmt.Sprintf("vitals config.init(): arch: %v", runtime.GOOS))
		LogInfo(context.Background(), "vitals config initialized with environment variable defaults")
	}
}
