package ledger

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

type fakeCaller struct {
	outputs [][]byte
	errs    []error
	calls   int
}

func (f *fakeCaller) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	i := f.calls
	f.calls++
	if i >= len(f.outputs) {
		i = len(f.outputs) - 1
	}
	return f.outputs[i], f.errs[i]
}

// encodeJobsResult ABI-encodes a jobs(uint256) return tuple.
func encodeJobsResult(t *testing.T, employer common.Address) []byte {
	t.Helper()

	out := make([]byte, 0, 4*32)
	out = append(out, common.LeftPadBytes(employer.Bytes(), 32)...)
	out = append(out, common.LeftPadBytes(common.Address{}.Bytes(), 32)...) // worker
	out = append(out, common.LeftPadBytes(big.NewInt(0).Bytes(), 32)...)   // amount
	out = append(out, common.LeftPadBytes([]byte{0}, 32)...)               // status
	return out
}

func testConfig() *Config {
	return &Config{
		ContractAddress: "0xfe34aBAc056AE81d0a33Ede4A3E9AF5DC8e338C1",
		CallTimeout:     time.Second,
		RetryAttempts:   3,
		RetryInitial:    time.Millisecond,
		RetryMax:        2 * time.Millisecond,
	}
}

func TestEmployerForJob(t *testing.T) {
	employer := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")

	t.Run("returns lowercase employer address", func(t *testing.T) {
		caller := &fakeCaller{
			outputs: [][]byte{encodeJobsResult(t, employer)},
			errs:    []error{nil},
		}
		g, err := newGateway(caller, testConfig(), slog.Default())
		require.NoError(t, err)

		got, err := g.EmployerForJob(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", got)
		assert.Equal(t, 1, caller.calls)
	})

	t.Run("zero employer address means job unknown", func(t *testing.T) {
		caller := &fakeCaller{
			outputs: [][]byte{encodeJobsResult(t, common.Address{})},
			errs:    []error{nil},
		}
		g, err := newGateway(caller, testConfig(), slog.Default())
		require.NoError(t, err)

		_, err = g.EmployerForJob(context.Background(), 404)
		require.Error(t, err)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})

	t.Run("retries transient failures then succeeds", func(t *testing.T) {
		rpcErr := errors.New("connection refused")
		caller := &fakeCaller{
			outputs: [][]byte{nil, encodeJobsResult(t, employer)},
			errs:    []error{rpcErr, nil},
		}
		g, err := newGateway(caller, testConfig(), slog.Default())
		require.NoError(t, err)

		got, err := g.EmployerForJob(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", got)
		assert.Equal(t, 2, caller.calls)
	})

	t.Run("exhausted retries surface as unavailable", func(t *testing.T) {
		rpcErr := errors.New("connection refused")
		caller := &fakeCaller{
			outputs: [][]byte{nil},
			errs:    []error{rpcErr},
		}
		g, err := newGateway(caller, testConfig(), slog.Default())
		require.NoError(t, err)

		_, err = g.EmployerForJob(context.Background(), 7)
		require.Error(t, err)
		assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
		assert.Equal(t, 3, caller.calls)
		assert.ErrorIs(t, err, rpcErr)
	})

	t.Run("empty response is unavailable not found", func(t *testing.T) {
		caller := &fakeCaller{
			outputs: [][]byte{{}},
			errs:    []error{nil},
		}
		g, err := newGateway(caller, testConfig(), slog.Default())
		require.NoError(t, err)

		_, err = g.EmployerForJob(context.Background(), 7)
		require.Error(t, err)
		assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	})
}
