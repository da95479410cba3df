package webdriver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tebeka/selenium"
)

// ErrTimeout is returned by Poll when the condition did not hold in time.
var ErrTimeout = errors.New("timeout waiting for condition")

// Condition reports whether the page reached the awaited state.
type Condition func() (bool, error)

// Poll evaluates cond right away and then once every interval until it
// returns true, returns an error, or timeout elapses. Errors meaning that an
// element is missing or went stale are retried rather than returned, since
// the page may still be changing.
func Poll(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	deadline := time.Now().Add(timeout)
	var last error
	for {
		ok, err := cond()
		if err == nil && ok {
			return nil
		}
		if err != nil && !transient(err) {
			return err
		}
		last = err

		if !time.Now().Before(deadline) {
			if last != nil {
				return fmt.Errorf("%w after %v: %v", ErrTimeout, timeout, last)
			}
			return fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Legacy JSON wire protocol servers only report the error string.
const (
	noSuchElement  = "no such element"
	staleReference = "stale element reference"
	noSuchAlert    = "no such alert"
	noAlertOpen    = "no alert open"
)

func errorIs(err error, kinds ...string) bool {
	if err == nil {
		return false
	}
	var serr *selenium.Error
	if errors.As(err, &serr) {
		for _, k := range kinds {
			if serr.Err == k {
				return true
			}
		}
	}
	msg := err.Error()
	for _, k := range kinds {
		if strings.Contains(msg, k) {
			return true
		}
	}
	return false
}

func isNoSuchElement(err error) bool { return errorIs(err, noSuchElement) }

func isStale(err error) bool { return errorIs(err, staleReference) }

func isNoAlert(err error) bool { return errorIs(err, noSuchAlert, noAlertOpen) }

func transient(err error) bool {
	return errors.Is(err, ErrNotFound) || isNoSuchElement(err) || isStale(err)
}
