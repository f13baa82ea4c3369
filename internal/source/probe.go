package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Probe produces a single string reading or fails.
type Probe func() (string, error)

// FirstOf tries each probe in order and returns the first non-empty value.
func FirstOf(probes ...Probe) (string, error) {
	var lastErr error
	for _, p := range probes {
		v, err := p()
		if err != nil {
			lastErr = err
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return "", ErrUnavailable
}

// FirstLine returns a probe reading the first line of path.
func FirstLine(path string) Probe {
	return func() (string, error) {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return "", nil
	}
}
