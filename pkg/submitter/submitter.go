// Package submitter dry-runs, sends, and confirms transactions. Simulation
// is mandatory before a wallet is asked to sign; a failed simulation
// short-circuits with the structured error and is never retried. Retry
// applies only to submission/confirmation flakiness, and the
// "already processed" response is treated as probable success requiring a
// state recheck, never as a plain failure.
package submitter

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/jito"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
)

// ConfirmationLevel represents transaction confirmation depth.
type ConfirmationLevel string

const (
	ConfirmationProcessed ConfirmationLevel = "processed"
	ConfirmationConfirmed ConfirmationLevel = "confirmed"
	ConfirmationFinalized ConfirmationLevel = "finalized"
)

// Chain is the transaction surface of the RPC client the submitter needs.
type Chain interface {
	SimulateTransaction(ctx context.Context, tx *solana.Transaction, opts *solanarpc.SimulateTransactionOpts) (*solanarpc.SimulateTransactionResponse, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, sigs ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error)
}

// SimulationResult is the structured outcome of a dry run.
type SimulationResult struct {
	Success      bool
	ComputeUnits uint64
	Logs         []string
	Err          error
}

// StateRecheck reports whether the effect of an ambiguous submission exists
// on-chain. Returning true converts the ambiguity into AlreadyDone.
type StateRecheck func(ctx context.Context) (bool, error)

// Submitter sends simulated, signed transactions with bounded retry.
type Submitter struct {
	chain           Chain
	log             zerolog.Logger
	commitment      solanarpc.CommitmentType
	skipPreflight   bool
	maxAttempts     int
	initialInterval time.Duration
	pollInterval    time.Duration
	confirmTimeout  time.Duration
	jitoClient      *jito.Client
	parseCustomErr  func(code int, logs []string) error
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithSkipPreflight disables the RPC node's own preflight simulation. The
// submitter's explicit simulate step still runs.
func WithSkipPreflight(skip bool) Option {
	return func(s *Submitter) { s.skipPreflight = skip }
}

// WithMaxAttempts bounds send retries.
func WithMaxAttempts(n int) Option {
	return func(s *Submitter) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithJito routes sends through the Jito Block Engine. Confirmation always
// uses standard RPC.
func WithJito(client *jito.Client) Option {
	return func(s *Submitter) { s.jitoClient = client }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Submitter) { s.log = log }
}

// WithProgramErrorParser installs the program-specific custom-error mapping
// used when a simulation reports an instruction error.
func WithProgramErrorParser(parse func(code int, logs []string) error) Option {
	return func(s *Submitter) { s.parseCustomErr = parse }
}

// WithConfirmTimeout bounds a single confirmation wait.
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Submitter) {
		if d > 0 {
			s.confirmTimeout = d
		}
	}
}

// New constructs a Submitter.
func New(chain Chain, commitment solanarpc.CommitmentType, opts ...Option) *Submitter {
	if commitment == "" {
		commitment = solanarpc.CommitmentConfirmed
	}
	s := &Submitter{
		chain:           chain,
		log:             zerolog.Nop(),
		commitment:      commitment,
		maxAttempts:     3,
		initialInterval: 200 * time.Millisecond,
		pollInterval:    100 * time.Millisecond,
		confirmTimeout:  45 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate dry-runs the transaction. The returned result carries the full
// logs verbatim; on instruction errors Err is the mapped program error.
// A non-nil top-level error means the simulation itself could not run.
func (s *Submitter) Simulate(ctx context.Context, tx *solana.Transaction) (SimulationResult, error) {
	if s.chain == nil {
		return SimulationResult{}, types.ErrNilRPC
	}
	resp, err := s.chain.SimulateTransaction(ctx, tx, &solanarpc.SimulateTransactionOpts{
		Commitment:             s.commitment,
		ReplaceRecentBlockhash: true,
	})
	if err != nil {
		return SimulationResult{}, types.RPCError{Op: "simulateTransaction", Err: err}
	}
	if resp == nil || resp.Value == nil {
		return SimulationResult{}, types.RPCError{Op: "simulateTransaction", Err: errors.New("empty response")}
	}

	result := SimulationResult{Logs: resp.Value.Logs}
	if resp.Value.UnitsConsumed != nil {
		result.ComputeUnits = *resp.Value.UnitsConsumed
	}
	if resp.Value.Err != nil {
		result.Err = s.parseSimErr(resp.Value.Err, resp.Value.Logs)
		return result, nil
	}
	result.Success = true
	return result, nil
}

func (s *Submitter) parseSimErr(errVal interface{}, logs []string) error {
	if code, ok := extractCustomCode(errVal); ok {
		if s.parseCustomErr != nil {
			return s.parseCustomErr(code, logs)
		}
		return &types.ProgramError{Code: code, Message: "custom program error", Logs: logs}
	}
	return &types.SimulationError{Err: errVal, Logs: logs}
}

// extractCustomCode digs the custom error code out of an
// {"InstructionError": [idx, {"Custom": code}]} simulation error value.
func extractCustomCode(errVal interface{}) (int, bool) {
	errMap, ok := errVal.(map[string]interface{})
	if !ok {
		return 0, false
	}
	instErr, ok := errMap["InstructionError"]
	if !ok {
		return 0, false
	}
	errSlice, ok := instErr.([]interface{})
	if !ok || len(errSlice) < 2 {
		return 0, false
	}
	customErr, ok := errSlice[1].(map[string]interface{})
	if !ok {
		return 0, false
	}
	code, ok := customErr["Custom"]
	if !ok {
		return 0, false
	}
	codeNum, ok := code.(float64)
	if !ok {
		return 0, false
	}
	return int(codeNum), true
}

// SubmitOptions tune one submission.
type SubmitOptions struct {
	Confirmation ConfirmationLevel
	// Recheck resolves the "already processed" ambiguity. Required for any
	// submission whose effect the caller can observe; without it the
	// ambiguous case surfaces as ErrSubmissionAmbiguous.
	Recheck StateRecheck
}

// Submit sends a signed transaction with bounded retry and confirmation
// polling, and returns a tagged outcome so the ambiguous-success case is
// explicit. Callers must have simulated and signed the transaction already.
func (s *Submitter) Submit(ctx context.Context, tx *solana.Transaction, opts SubmitOptions) types.Outcome {
	if s.chain == nil {
		return types.Failed(types.ErrNilRPC)
	}
	if opts.Confirmation == "" {
		opts.Confirmation = ConfirmationConfirmed
	}

	sig, err := s.sendWithRetry(ctx, tx)
	if err != nil {
		if types.IsAlreadyProcessed(err) {
			return s.resolveAmbiguous(ctx, sig, opts.Recheck)
		}
		return types.Failed(err)
	}

	if err := s.waitForConfirmation(ctx, sig, opts.Confirmation); err != nil {
		if errors.Is(err, types.ErrConfirmationTimeout) {
			// The transaction may still land; same ambiguity as a duplicate
			// submission, resolved the same way.
			return s.resolveAmbiguous(ctx, sig, opts.Recheck)
		}
		return types.Failed(err)
	}
	return types.Ok(sig)
}

func (s *Submitter) resolveAmbiguous(ctx context.Context, sig solana.Signature, recheck StateRecheck) types.Outcome {
	if recheck == nil {
		return types.Failed(types.ErrSubmissionAmbiguous)
	}
	done, err := recheck(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("state recheck failed after ambiguous submission")
		return types.Failed(types.ErrSubmissionAmbiguous)
	}
	if done {
		return types.AlreadyDone(sig)
	}
	return types.Failed(types.ErrSubmissionAmbiguous)
}

// sendWithRetry retries only transient transport failures, with exponential
// backoff and a bounded attempt count. Program rejections and the
// already-processed case break out immediately.
func (s *Submitter) sendWithRetry(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	var sig solana.Signature
	attempt := 0

	send := s.sendOnce
	if s.jitoClient != nil {
		send = s.sendViaJito
	}

	operation := func() error {
		attempt++
		var err error
		sig, err = send(ctx, tx)
		if err == nil {
			return nil
		}
		if !types.IsRetryableSendError(err) {
			return backoff.Permanent(err)
		}
		s.log.Warn().Int("attempt", attempt).Err(err).Msg("retrying transaction send")
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initialInterval
	bounded := backoff.WithMaxRetries(backoff.WithContext(policy, ctx), uint64(s.maxAttempts-1))

	if err := backoff.Retry(operation, bounded); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return sig, perm.Err
		}
		return sig, err
	}
	return sig, nil
}

func (s *Submitter) sendOnce(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return s.chain.SendTransaction(ctx, tx, solanarpc.TransactionOpts{
		SkipPreflight:       s.skipPreflight,
		PreflightCommitment: s.commitment,
	})
}

func (s *Submitter) sendViaJito(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return s.jitoClient.SendTransaction(ctx, tx)
}

// waitForConfirmation polls signature status until the requested level or
// the confirmation timeout.
func (s *Submitter) waitForConfirmation(ctx context.Context, sig solana.Signature, level ConfirmationLevel) error {
	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return types.ErrConfirmationTimeout
			}
			return ctx.Err()
		case <-ticker.C:
			resp, err := s.chain.GetSignatureStatuses(ctx, sig)
			if err != nil {
				continue // transient; keep polling until timeout
			}
			if resp == nil || len(resp.Value) == 0 || resp.Value[0] == nil {
				continue // not yet visible
			}
			status := resp.Value[0]
			if status.Err != nil {
				return s.parseSimErr(status.Err, nil)
			}
			switch level {
			case ConfirmationProcessed:
				return nil
			case ConfirmationConfirmed:
				if status.ConfirmationStatus == solanarpc.ConfirmationStatusConfirmed ||
					status.ConfirmationStatus == solanarpc.ConfirmationStatusFinalized {
					return nil
				}
			case ConfirmationFinalized:
				if status.ConfirmationStatus == solanarpc.ConfirmationStatusFinalized {
					return nil
				}
			default:
				return nil
			}
		}
	}
}
