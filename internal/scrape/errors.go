package scrape

import "fmt"

// FetchError represents a failure while scraping one channel. Fetches are
// isolated per source, so a FetchError never aborts a whole ingestion run.
type FetchError struct {
	Channel string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Channel, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.Channel, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
