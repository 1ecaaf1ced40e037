// Package creds materializes a transport-encoded service-account credential
// into a short-lived file for client libraries that only accept file paths.
package creds

import (
	"encoding/base64"
	"fmt"
	"os"
)

// WriteServiceAccount decodes a base64-encoded credential blob into a file
// readable only by the current user and returns its path together with a
// cleanup func. The caller must defer cleanup so the file never outlives the
// process, whatever the exit path.
func WriteServiceAccount(encoded string) (string, func(), error) {
	if encoded == "" {
		return "", nil, fmt.Errorf("credential blob is empty")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decode credential blob: %w", err)
	}

	f, err := os.CreateTemp("", "newsdigest-creds-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("create credential file: %w", err)
	}

	path := f.Name()
	cleanup := func() { os.Remove(path) }

	if err := f.Chmod(0o600); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("restrict credential file mode: %w", err)
	}

	if _, err := f.Write(decoded); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write credential file: %w", err)
	}

	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close credential file: %w", err)
	}

	return path, cleanup, nil
}
