package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/hirelink-be/internal/hiring/storage"
)

func TestEncodeDecodeJobCursor(t *testing.T) {
	original := &storage.JobCursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
		ID:        42,
	}

	encoded := EncodeJobCursor(original)
	decoded, err := DecodeJobCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.CreatedAt.UnixNano(), decoded.CreatedAt.UnixNano())
}

func TestDecodeJobCursor(t *testing.T) {
	tests := []struct {
		name      string
		cursor    string
		expectErr bool
		expectNil bool
	}{
		{
			name:      "empty cursor means first page",
			cursor:    "",
			expectNil: true,
		},
		{
			name:      "not base64",
			cursor:    "!!!not-base64!!!",
			expectErr: true,
		},
		{
			name:      "missing separator",
			cursor:    base64.StdEncoding.EncodeToString([]byte("1234567890")),
			expectErr: true,
		},
		{
			name:      "non-numeric timestamp",
			cursor:    base64.StdEncoding.EncodeToString([]byte("abc|7")),
			expectErr: true,
		},
		{
			name:      "non-numeric id",
			cursor:    base64.StdEncoding.EncodeToString([]byte("1234567890|abc")),
			expectErr: true,
		},
		{
			name:   "valid cursor",
			cursor: base64.StdEncoding.EncodeToString([]byte("1234567890|7")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeJobCursor(tt.cursor)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, decoded)
			} else {
				require.NotNil(t, decoded)
				assert.Equal(t, int64(7), decoded.ID)
			}
		})
	}
}
