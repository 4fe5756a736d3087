package reader

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

type jsonRPCError struct {
	code int
	msg  string
}

func (e jsonRPCError) Error() string  { return e.msg }
func (e jsonRPCError) ErrorCode() int { return e.code }

type stubNode struct {
	name     string
	gasPrice *big.Int
	err      error
	delay    time.Duration
}

func (s *stubNode) NodeName() string { return s.name }
func (s *stubNode) NodeURL() string  { return "http://" + s.name }

func (s *stubNode) wait(ctx context.Context) error {
	if s.delay == 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubNode) SuggestedGasPrice(ctx context.Context) (*big.Int, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.gasPrice, s.err
}

func (s *stubNode) EstimateGas(context.Context, walletcommon.CallRequest) (uint64, error) {
	return 0, s.err
}

func (s *stubNode) GetBalance(context.Context, common.Address) (*big.Int, error) {
	return nil, s.err
}

func (s *stubNode) GetPendingNonce(context.Context, common.Address) (uint64, error) {
	return 0, s.err
}

func (s *stubNode) TransactionReceipt(context.Context, common.Hash) (*walletcommon.Receipt, error) {
	return nil, s.err
}

func (s *stubNode) ReadContractToBytes(context.Context, common.Address, *abi.ABI, string, ...interface{}) ([]byte, error) {
	return nil, s.err
}

func (s *stubNode) BlockByNumber(context.Context, *big.Int, bool) (*walletcommon.Block, error) {
	return nil, s.err
}

func (s *stubNode) CurrentBlock(context.Context) (uint64, error) {
	return 0, s.err
}

func (s *stubNode) ChainID(context.Context) (*big.Int, error) {
	return nil, s.err
}

func TestReaderReturnsFirstSuccess(t *testing.T) {
	r := NewEthReaderWithNodes(nil,
		&stubNode{name: "broken", err: errors.New("connection refused")},
		&stubNode{name: "good", gasPrice: big.NewInt(7)},
	)
	price, err := r.GetGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), price.Int64())
}

func TestReaderTransportFailuresAreUnavailable(t *testing.T) {
	r := NewEthReaderWithNodes(nil,
		&stubNode{name: "a", err: errors.New("connection refused")},
		&stubNode{name: "b", err: context.DeadlineExceeded},
	)
	_, err := r.GetGasPrice(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, rejected := walletcommon.IsRejected(err)
	assert.False(t, rejected)
}

func TestReaderNodeErrorIsRejection(t *testing.T) {
	r := NewEthReaderWithNodes(nil,
		&stubNode{name: "a", err: errors.New("connection refused")},
		&stubNode{name: "b", err: jsonRPCError{code: -32000, msg: "execution reverted"}},
	)
	_, err := r.EstimateGas(context.Background(), walletcommon.CallRequest{})
	require.Error(t, err)
	detail, rejected := walletcommon.IsRejected(err)
	assert.True(t, rejected)
	assert.Equal(t, "execution reverted", detail)
	assert.NotErrorIs(t, err, walletcommon.ErrGatewayUnavailable)
}

func TestReaderWithoutNodes(t *testing.T) {
	r := NewEthReaderWithNodes(nil)
	_, err := r.GetBalance(context.Background(), common.Address{})
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)
}

func TestReaderCancelsSlowNodes(t *testing.T) {
	slow := &stubNode{name: "slow", gasPrice: big.NewInt(1), delay: time.Minute}
	r := NewEthReaderWithNodes(nil,
		slow,
		&stubNode{name: "fast", gasPrice: big.NewInt(2)},
	)
	start := time.Now()
	price, err := r.GetGasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), price.Int64())
	assert.Less(t, time.Since(start), 10*time.Second)
}

const fullBlockJSON = `{
	"number": "0x10",
	"hash": "0x88e96d4537bea4d9c05d12549907b32561d3bf31f45aae734cdc119f13406cb6",
	"timestamp": "0x55ba467c",
	"transactions": [
		{
			"hash": "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060",
			"from": "0xa1e4380a3b1f749673e270229993ee55f35663b4",
			"to": "0x5df9b87991262f6ba471f09758cde1c0fc1de734",
			"value": "0x7a69",
			"input": "0x",
			"nonce": "0x0"
		},
		{
			"hash": "0x6c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060",
			"from": "0xa1e4380a3b1f749673e270229993ee55f35663b4",
			"to": null,
			"value": "0x0",
			"input": "0x6060",
			"nonce": "0x1"
		}
	]
}`

func TestRPCBlockToBlock(t *testing.T) {
	var raw rpcBlock
	require.NoError(t, json.Unmarshal([]byte(fullBlockJSON), &raw))
	block, err := raw.toBlock(true)
	require.NoError(t, err)

	assert.Equal(t, uint64(16), block.Number)
	assert.Equal(t, int64(0x55ba467c), block.Timestamp.Unix())
	require.Len(t, block.Transactions, 2)

	first := block.Transactions[0]
	assert.Equal(t, common.HexToAddress("0xa1e4380a3b1f749673e270229993ee55f35663b4"), first.From)
	require.NotNil(t, first.To)
	assert.Equal(t, common.HexToAddress("0x5df9b87991262f6ba471f09758cde1c0fc1de734"), *first.To)
	assert.Equal(t, int64(31337), first.Value.Int64())
	assert.Empty(t, first.Input)

	second := block.Transactions[1]
	assert.Nil(t, second.To)
	assert.Equal(t, []byte{0x60, 0x60}, second.Input)
	assert.Equal(t, uint64(1), second.Nonce)
}

func TestRPCBlockHashesOnly(t *testing.T) {
	raw := rpcBlock{
		Number:       1,
		Transactions: []json.RawMessage{json.RawMessage(`"0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"`)},
	}
	block, err := raw.toBlock(false)
	require.NoError(t, err)
	require.Len(t, block.Transactions, 1)
	assert.Equal(t,
		common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"),
		block.Transactions[0].Hash,
	)
}

func TestToBlockNumArg(t *testing.T) {
	assert.Equal(t, "latest", toBlockNumArg(nil))
	assert.Equal(t, "0x1f", toBlockNumArg(big.NewInt(31)))
}
