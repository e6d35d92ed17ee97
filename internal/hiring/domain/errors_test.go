package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{name: "not found", err: NotFoundf("job %d not found", 7), kind: KindNotFound},
		{name: "conflict", err: Conflictf("already recorded"), kind: KindConflict},
		{name: "invalid", err: Invalidf("bad wallet"), kind: KindInvalid},
		{name: "mismatch", err: Mismatch("wallet mismatch", "0xaa", "0xbb"), kind: KindMismatch},
		{name: "unavailable", err: Unavailable("rpc down", nil), kind: KindUnavailable},
		{name: "wrapped classified error", err: fmt.Errorf("commit: %w", Conflictf("dup")), kind: KindConflict},
		{name: "unclassified error is retryable", err: errors.New("boom"), kind: KindUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestMismatchDetail(t *testing.T) {
	err := Mismatch("employer wallet does not match ledger record", "0xaa", "0xbb")

	detail := DetailOf(err)
	require.NotNil(t, detail)
	assert.Equal(t, "0xaa", detail["expected"])
	assert.Equal(t, "0xbb", detail["observed"])

	assert.Nil(t, DetailOf(errors.New("boom")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("ledger unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Contains(t, err.Error(), "connection refused")
}
