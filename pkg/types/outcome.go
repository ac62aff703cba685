package types

import "github.com/gagliardetto/solana-go"

// OutcomeKind tags submission results so every caller handles the
// ambiguous-success case explicitly instead of collapsing it into an error.
type OutcomeKind int

const (
	// OutcomeOk means the transaction landed and confirmed in this call.
	OutcomeOk OutcomeKind = iota
	// OutcomeAlreadyDone means the network reported the transaction as
	// already processed and a state recheck confirmed the effect exists.
	OutcomeAlreadyDone
	// OutcomeFailed means the submission failed terminally.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOk:
		return "ok"
	case OutcomeAlreadyDone:
		return "already-done"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a submission attempt.
type Outcome struct {
	Kind      OutcomeKind
	Signature solana.Signature
	Reason    error
}

// Ok builds a successful outcome.
func Ok(sig solana.Signature) Outcome {
	return Outcome{Kind: OutcomeOk, Signature: sig}
}

// AlreadyDone builds an outcome for a duplicate submission whose effect was
// verified on-chain.
func AlreadyDone(sig solana.Signature) Outcome {
	return Outcome{Kind: OutcomeAlreadyDone, Signature: sig}
}

// Failed builds a terminal failure outcome.
func Failed(reason error) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason}
}
