package utils

import (
	"log"
	"time"
)

// Retry runs fn up to attempts times, doubling the delay after each
// failure. Used for connectivity-level work (database connect, schema
// migration); business operations are never retried.
func Retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			log.Printf("attempt %d/%d failed: %v, retrying in %s", i+1, attempts, err, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}
