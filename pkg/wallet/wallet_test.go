package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/fundraisely/fundraisely-go-sdk/pkg/wallet"
)

func TestLocalSignsVerifiableSignatures(t *testing.T) {
	kp := solana.NewWallet()
	signer := wallet.NewLocalFromPrivateKey(kp.PrivateKey)
	require.Equal(t, kp.PublicKey(), signer.PublicKey())

	msg := []byte("settlement message")
	sig, err := signer.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	require.True(t, sig.Verify(kp.PublicKey(), msg))
}

func TestLocalHonorsCancelledContext(t *testing.T) {
	signer := wallet.NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := signer.SignMessage(ctx, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalFromBase58(t *testing.T) {
	kp := solana.NewWallet()
	signer, err := wallet.NewLocalFromBase58(kp.PrivateKey.String())
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey(), signer.PublicKey())

	_, err = wallet.NewLocalFromBase58("not-base58-0OIl")
	require.Error(t, err)
}

func TestRemoteDelegatesSigning(t *testing.T) {
	kp := solana.NewWallet()
	msg := []byte("join approval")

	remote := wallet.NewRemote(kp.PublicKey(), func(ctx context.Context, m []byte) ([]byte, error) {
		sig, err := kp.PrivateKey.Sign(m)
		if err != nil {
			return nil, err
		}
		return sig[:], nil
	})
	require.Equal(t, kp.PublicKey(), remote.PublicKey())

	sig, err := remote.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	require.True(t, sig.Verify(kp.PublicKey(), msg))
}

func TestRemoteRejectsBadSignatures(t *testing.T) {
	pub := solana.NewWallet().PublicKey()

	short := wallet.NewRemote(pub, func(ctx context.Context, m []byte) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	})
	_, err := short.SignMessage(context.Background(), []byte("x"))
	require.Error(t, err)

	denied := errors.New("user declined")
	declining := wallet.NewRemote(pub, func(ctx context.Context, m []byte) ([]byte, error) {
		return nil, denied
	})
	_, err = declining.SignMessage(context.Background(), []byte("x"))
	require.ErrorIs(t, err, denied)

	var unset wallet.Remote
	_, err = unset.SignMessage(context.Background(), []byte("x"))
	require.Error(t, err)
}
