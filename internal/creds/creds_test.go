package creds

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceAccount(t *testing.T) {
	payload := `{"type":"service_account","project_id":"digest"}`
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))

	path, cleanup, err := WriteServiceAccount(encoded)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteServiceAccountEmpty(t *testing.T) {
	_, _, err := WriteServiceAccount("")
	require.Error(t, err)
}

func TestWriteServiceAccountBadEncoding(t *testing.T) {
	_, _, err := WriteServiceAccount("%%% not base64 %%%")
	require.Error(t, err)
}
