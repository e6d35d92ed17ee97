// Package ledger reads committed job state from the hiring settlement
// contract. The gateway is strictly read-only: transaction submission
// happens in the caller's wallet, and the engine only verifies what
// was submitted.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
	"github.com/hirelink/hirelink-be/shared/backoff"
)

// jobsABI covers the single view the engine needs: the public jobs
// mapping on the hiring contract.
const jobsABI = `[{
	"inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
	"name": "jobs",
	"outputs": [
		{"internalType": "address", "name": "employer", "type": "address"},
		{"internalType": "address", "name": "worker", "type": "address"},
		{"internalType": "uint256", "name": "amount", "type": "uint256"},
		{"internalType": "uint8", "name": "status", "type": "uint8"}
	],
	"stateMutability": "view",
	"type": "function"
}]`

// contractCaller is the slice of ethclient.Client the gateway uses;
// tests substitute a fake.
type contractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Config holds ledger gateway settings.
type Config struct {
	RPCURL          string
	ContractAddress string
	CallTimeout     time.Duration
	RetryAttempts   int
	RetryInitial    time.Duration
	RetryMax        time.Duration
}

// Gateway reads the hiring contract over JSON-RPC with a bounded
// per-attempt timeout and retry with backoff.
type Gateway struct {
	caller   contractCaller
	closer   func()
	contract common.Address
	abi      abi.ABI
	timeout  time.Duration
	attempts int
	strategy backoff.Strategy
	logger   *slog.Logger
}

// New dials the RPC endpoint and returns a Gateway bound to the
// hiring contract.
func New(cfg *Config, logger *slog.Logger) (*Gateway, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ledger rpc: %w", err)
	}

	gw, err := newGateway(client, cfg, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	gw.closer = client.Close

	return gw, nil
}

// Close releases the underlying RPC connection.
func (g *Gateway) Close() {
	if g.closer != nil {
		g.closer()
	}
}

func newGateway(caller contractCaller, cfg *Config, logger *slog.Logger) (*Gateway, error) {
	parsed, err := abi.JSON(strings.NewReader(jobsABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}

	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}

	initial := cfg.RetryInitial
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	maxDelay := cfg.RetryMax
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}

	return &Gateway{
		caller:   caller,
		contract: common.HexToAddress(cfg.ContractAddress),
		abi:      parsed,
		timeout:  timeout,
		attempts: attempts,
		strategy: backoff.NewExponentialWithJitter(initial, maxDelay),
		logger:   logger,
	}, nil
}

// EmployerForJob returns the lowercase employer address the ledger
// recorded for jobID. A zero employer address means the ledger has no
// such job. Transient RPC failures are retried; exhaustion surfaces
// as Unavailable so the caller can retry the whole commit.
func (g *Gateway) EmployerForJob(ctx context.Context, jobID int64) (string, error) {
	input, err := g.abi.Pack("jobs", new(big.Int).SetInt64(jobID))
	if err != nil {
		return "", domain.Invalidf("failed to encode ledger call: %v", err)
	}

	msg := ethereum.CallMsg{
		To:   &g.contract,
		Data: input,
	}

	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		output, err := g.call(ctx, msg)
		if err == nil {
			return g.decodeEmployer(jobID, output)
		}
		lastErr = err

		g.logger.Warn("Ledger read failed",
			slog.Int64("job_id", jobID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if attempt < g.attempts {
			select {
			case <-ctx.Done():
				return "", domain.Unavailable("ledger read cancelled", ctx.Err())
			case <-time.After(g.strategy.Delay(attempt)):
			}
		}
	}

	return "", domain.Unavailable(
		fmt.Sprintf("ledger unreachable after %d attempts", g.attempts), lastErr)
}

func (g *Gateway) call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	return g.caller.CallContract(callCtx, msg, nil)
}

func (g *Gateway) decodeEmployer(jobID int64, output []byte) (string, error) {
	if len(output) == 0 {
		// eth_call against an address without code returns no data.
		return "", domain.Unavailable("ledger returned no data; contract address may be wrong", nil)
	}

	values, err := g.abi.Unpack("jobs", output)
	if err != nil {
		return "", domain.Unavailable("failed to decode ledger response", err)
	}

	employer, ok := values[0].(common.Address)
	if !ok {
		return "", domain.Unavailable("unexpected ledger response shape", nil)
	}

	if employer == (common.Address{}) {
		return "", domain.NotFoundf("ledger has no job %d", jobID)
	}

	return strings.ToLower(employer.Hex()), nil
}
