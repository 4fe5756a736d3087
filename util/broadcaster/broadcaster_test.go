package broadcaster

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

type nodeError string

func (e nodeError) Error() string  { return string(e) }
func (e nodeError) ErrorCode() int { return -32000 }

type fakeClient struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (f *fakeClient) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	if len(args) != 1 {
		return errors.New("expected the raw tx as the only param")
	}
	return f.err
}

var rawTx = []byte{0xf8, 0x6c, 0x09}

func TestSendRawTransactionAcceptedByOneNode(t *testing.T) {
	good := &fakeClient{}
	bad := &fakeClient{err: errors.New("dial tcp: connection refused")}
	b := NewBroadcasterWithClients(map[string]RPCClient{"good": good, "bad": bad}, nil)

	hash, err := b.SendRawTransaction(context.Background(), rawTx)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash(rawTx), hash)
	assert.Equal(t, []string{"eth_sendRawTransaction"}, good.calls)
	assert.Equal(t, []string{"eth_sendRawTransaction"}, bad.calls)
}

func TestSendRawTransactionRejected(t *testing.T) {
	b := NewBroadcasterWithClients(map[string]RPCClient{
		"a": &fakeClient{err: nodeError("nonce too low")},
		"b": &fakeClient{err: errors.New("i/o timeout")},
	}, nil)

	_, err := b.SendRawTransaction(context.Background(), rawTx)
	detail, rejected := walletcommon.IsRejected(err)
	require.True(t, rejected)
	assert.Equal(t, "nonce too low", detail)
}

func TestSendRawTransactionUnavailable(t *testing.T) {
	b := NewBroadcasterWithClients(map[string]RPCClient{
		"a": &fakeClient{err: errors.New("i/o timeout")},
	}, nil)

	_, err := b.SendRawTransaction(context.Background(), rawTx)
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)

	empty := NewBroadcasterWithClients(map[string]RPCClient{}, nil)
	_, err = empty.SendRawTransaction(context.Background(), rawTx)
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)
}
