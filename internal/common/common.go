package common

import (
	"fmt"
	"net/http"
	"time"
)

const maxAttempts = 3

// GetWithRetry issues req, retrying transport errors and non-2xx statuses
// up to three times with a short pause between attempts.
func GetWithRetry(req *http.Request, name string) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(time.Duration(attempt) * 250 * time.Millisecond)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("error on %v api request: %w", name, err)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			lastErr = fmt.Errorf("error code %v returned from %v", resp.StatusCode, name)
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}
