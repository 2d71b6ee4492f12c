// Package provider holds the logging shared by the outbound API clients (payments, video).
package provider

import (
	"log"
	"time"
)

// LogCall logs one upstream request with its outcome.
func LogCall(provider, method, path string, status int, started time.Time, err error) {
	d := time.Since(started).Milliseconds()
	if err != nil {
		log.Printf("[%s] %s %s status=%d duration=%dms error: %v", provider, method, path, status, d, err)
		return
	}
	log.Printf("[%s] %s %s status=%d duration=%dms", provider, method, path, status, d)
}

// LogError logs a failed upstream operation whose caller carries on without the result.
func LogError(provider, operation string, err error) {
	log.Printf("[%s] %s error: %v", provider, operation, err)
}
