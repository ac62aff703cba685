// Package jito provides an optional Jito Block Engine send path for the
// transaction submitter. Entry-fee joins during popular events compete for
// block space; operators can route submissions through Jito for faster
// inclusion without changing the confirmation path, which always goes
// through standard RPC.
package jito

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	jitorpc "github.com/jito-labs/jito-go-rpc"
)

// Default Jito Block Engine endpoints
const (
	MainnetBlockEngine = "https://mainnet.block-engine.jito.wtf/api/v1"
	TestnetBlockEngine = "https://testnet.block-engine.jito.wtf/api/v1"
)

// Client wraps the Jito RPC client with endpoint rotation on rate limits.
type Client struct {
	endpoints    []string
	uuid         string
	currentIndex uint32
	maxRetries   int
	retryDelay   time.Duration
}

// NewClient creates a Jito client for the given endpoint. uuid is optional.
func NewClient(endpoint string, uuid string) *Client {
	if endpoint == "" {
		endpoint = MainnetBlockEngine
	}
	return &Client{
		endpoints:  []string{endpoint},
		uuid:       uuid,
		maxRetries: 3,
		retryDelay: 200 * time.Millisecond,
	}
}

// NewClientWithEndpoints creates a client rotating across several endpoints.
func NewClientWithEndpoints(endpoints []string, uuid string) *Client {
	if len(endpoints) == 0 {
		return NewClient("", uuid)
	}
	return &Client{
		endpoints:  endpoints,
		uuid:       uuid,
		maxRetries: len(endpoints) + 2,
		retryDelay: 100 * time.Millisecond,
	}
}

func (c *Client) next() *jitorpc.JitoJsonRpcClient {
	idx := atomic.AddUint32(&c.currentIndex, 1)
	endpoint := c.endpoints[int(idx)%len(c.endpoints)]
	return jitorpc.NewJitoJsonRpcClient(endpoint, c.uuid)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "congested") ||
		strings.Contains(msg, "429")
}

// SendTransaction submits a fully signed transaction as a single-transaction
// bundle, rotating endpoints on rate limits. Confirmation is the caller's
// job via standard RPC signature polling.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("marshal transaction: %w", err)
	}
	txBase64 := base64.StdEncoding.EncodeToString(txBytes)

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return solana.Signature{}, err
		}
		rawResp, err := c.next().SendBundle([][]string{{txBase64}})
		if err != nil {
			lastErr = err
			if isRateLimitError(err) {
				time.Sleep(c.retryDelay)
				continue
			}
			return solana.Signature{}, fmt.Errorf("jito send transaction: %w", err)
		}

		var bundleID string
		if err = json.Unmarshal(rawResp, &bundleID); err != nil {
			return solana.Signature{}, fmt.Errorf("unmarshal bundle response: %w", err)
		}

		var sig solana.Signature
		if len(tx.Signatures) > 0 {
			sig = tx.Signatures[0]
		}
		return sig, nil
	}
	return solana.Signature{}, fmt.Errorf("jito send transaction failed after %d retries: %w", c.maxRetries, lastErr)
}
