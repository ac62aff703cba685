package roomclient_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	sdkconfig "github.com/fundraisely/fundraisely-go-sdk/pkg/config"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/program/room"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/roomclient"
	sdkrpc "github.com/fundraisely/fundraisely-go-sdk/pkg/rpc"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/submitter"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/types"
	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

// Integration test configuration - set via environment variables
// FUNDRAISELY_TEST_RPC_URL: RPC endpoint (default: devnet)
// FUNDRAISELY_TEST_PRIVATE_KEY: Base58 encoded player private key
// FUNDRAISELY_TEST_HOST: Host public key of the room to join
// FUNDRAISELY_TEST_ROOM_ID: Room id to join

func getIntegrationConfig(t *testing.T) (rpcURL, privateKey, host, roomID string) {
	rpcURL = os.Getenv("FUNDRAISELY_TEST_RPC_URL")
	if rpcURL == "" {
		rpcURL = solanarpc.DevNet_RPC
	}

	privateKey = os.Getenv("FUNDRAISELY_TEST_PRIVATE_KEY")
	if privateKey == "" {
		t.Skip("FUNDRAISELY_TEST_PRIVATE_KEY not set, skipping integration test")
	}

	host = os.Getenv("FUNDRAISELY_TEST_HOST")
	if host == "" {
		t.Skip("FUNDRAISELY_TEST_HOST not set, skipping integration test")
	}

	roomID = os.Getenv("FUNDRAISELY_TEST_ROOM_ID")
	if roomID == "" {
		t.Skip("FUNDRAISELY_TEST_ROOM_ID not set, skipping integration test")
	}

	return rpcURL, privateKey, host, roomID
}

func newIntegrationClient(t *testing.T, rpcURL string) (*roomclient.Client, *sdkrpc.Client) {
	cfg := sdkconfig.DefaultRPCConfig()
	cfg.RPCURL = rpcURL
	cfg.Timeout = 30 * time.Second
	rpcClient := sdkrpc.NewClient(cfg)

	sub := submitter.New(rpcClient, solanarpc.CommitmentConfirmed,
		submitter.WithProgramErrorParser(func(code int, logs []string) error {
			return room.ParseProgramError(code, logs)
		}))
	client, err := roomclient.New(rpcClient, sub)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client, rpcClient
}

// TestJoinRoomOnCluster joins a live room and verifies the join receipt,
// then asserts that a second join of the same room is rejected locally.
func TestJoinRoomOnCluster(t *testing.T) {
	rpcURL, privateKeyStr, hostStr, roomID := getIntegrationConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, _ := newIntegrationClient(t, rpcURL)

	signer, err := wallet.NewLocalFromBase58(privateKeyStr)
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	host := solana.MustPublicKeyFromBase58(hostStr)

	t.Logf("Test configuration:")
	t.Logf("  Host: %s", host)
	t.Logf("  Room: %s", roomID)
	t.Logf("  Player: %s", signer.PublicKey())

	r, roomAddr, err := client.Room(ctx, host, roomID)
	if err != nil {
		t.Fatalf("fetch room: %v", err)
	}
	t.Logf("  Room address: %s", roomAddr)
	t.Logf("  Entry fee: %d, players: %d/%d", r.EntryFee, r.PlayerCount, r.MaxPlayers)

	shares, err := client.SplitPreview(ctx, host, roomID)
	if err != nil {
		t.Fatalf("split preview: %v", err)
	}
	t.Logf("  Current split: host=%d prize=%d platform=%d charity=%d",
		shares.Host, shares.Prize, shares.Platform, shares.Charity)

	res, err := client.JoinRoom(ctx, signer, roomclient.JoinRoomParams{
		RoomID: roomID,
		Host:   host,
	})
	if errors.Is(err, types.ErrAlreadyJoined) {
		t.Logf("  Player already joined, receipt at %s", res.PlayerEntryAddress)
	} else if err != nil {
		t.Fatalf("join room: %v", err)
	} else {
		t.Logf("  Join tx: %s", res.Outcome.Signature)
		t.Logf("  Receipt: %s", res.PlayerEntryAddress)
		if res.AlreadyPaid {
			t.Log("  Earlier payment had already landed")
		}
	}

	// A repeat join must be rejected before any transaction is built.
	_, err = client.JoinRoom(ctx, signer, roomclient.JoinRoomParams{
		RoomID: roomID,
		Host:   host,
	})
	if !errors.Is(err, types.ErrAlreadyJoined) {
		t.Fatalf("expected duplicate join rejection, got: %v", err)
	}
	t.Log("Test completed successfully")
}

// TestReadPlatformStateOnCluster exercises the read-only surface against a
// cluster with the program deployed. Only needs an RPC endpoint.
func TestReadPlatformStateOnCluster(t *testing.T) {
	if os.Getenv("FUNDRAISELY_TEST_RPC_URL") == "" {
		t.Skip("FUNDRAISELY_TEST_RPC_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, _ := newIntegrationClient(t, os.Getenv("FUNDRAISELY_TEST_RPC_URL"))

	cfg, err := client.GlobalConfig(ctx)
	if err != nil {
		t.Fatalf("fetch global config: %v", err)
	}
	t.Logf("Admin: %s", cfg.Admin)
	t.Logf("Platform fee: %d bps, charity floor: %d bps", cfg.PlatformFeeBps, cfg.MinCharityBps)
	t.Logf("Paused: %v", cfg.Paused)

	registry, err := client.TokenRegistry(ctx)
	if err != nil {
		t.Fatalf("fetch token registry: %v", err)
	}
	t.Logf("Approved tokens: %d", len(registry.ApprovedTokens))
	for _, mint := range registry.ApprovedTokens {
		t.Logf("  %s", mint)
	}
}
