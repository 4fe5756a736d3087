package reader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const TIMEOUT time.Duration = 4 * time.Second

type OneNodeReader struct {
	nodeName  string
	nodeURL   string
	client    *rpc.Client
	ethClient *ethclient.Client
	mu        sync.Mutex
}

func NewOneNodeReader(name, url string) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

func (onr *OneNodeReader) initConnection() error {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		return nil
	}
	client, err := rpc.Dial(onr.NodeURL())
	if err != nil {
		return fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	onr.ethClient = ethclient.NewClient(onr.client)
	return nil
}

func (onr *OneNodeReader) Client() (*rpc.Client, error) {
	if err := onr.initConnection(); err != nil {
		return nil, err
	}
	return onr.client, nil
}

func (onr *OneNodeReader) EthClient() (*ethclient.Client, error) {
	if err := onr.initConnection(); err != nil {
		return nil, err
	}
	return onr.ethClient, nil
}

func (onr *OneNodeReader) EstimateGas(ctx context.Context, msg walletcommon.CallRequest) (uint64, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.EstimateGas(timeout, ethereum.CallMsg{
		From:  msg.From,
		To:    msg.To,
		Value: msg.Value,
		Data:  msg.Data,
	})
}

func (onr *OneNodeReader) SuggestedGasPrice(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.SuggestGasPrice(timeout)
}

func (onr *OneNodeReader) GetBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.BalanceAt(timeout, account, nil)
}

func (onr *OneNodeReader) GetPendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.PendingNonceAt(timeout, account)
}

func (onr *OneNodeReader) ChainID(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.ChainID(timeout)
}

// TransactionReceipt returns nil, nil when the node has no receipt for hash
// yet.
func (onr *OneNodeReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*walletcommon.Receipt, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	receipt, err := ethcli.TransactionReceipt(timeout, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result := &walletcommon.Receipt{
		TxHash:  receipt.TxHash,
		Status:  receipt.Status,
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return result, nil
}

func (onr *OneNodeReader) ReadContractToBytes(
	ctx context.Context,
	contract common.Address,
	abi *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	data, err := abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.CallContract(timeout, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
}

func (onr *OneNodeReader) CurrentBlock(ctx context.Context) (uint64, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.BlockNumber(timeout)
}

type rpcTransaction struct {
	Hash  common.Hash     `json:"hash"`
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Value *hexutil.Big    `json:"value"`
	Input hexutil.Bytes   `json:"input"`
	Nonce hexutil.Uint64  `json:"nonce"`
}

type rpcBlock struct {
	Number       hexutil.Uint64    `json:"number"`
	Hash         common.Hash       `json:"hash"`
	Timestamp    hexutil.Uint64    `json:"timestamp"`
	Transactions []json.RawMessage `json:"transactions"`
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}

// BlockByNumber reads the block through a raw eth_getBlockByNumber call
// instead of ethclient so that transaction types the local go-ethereum
// version doesn't know about can still be scanned. It returns nil, nil when
// the node doesn't have the block.
func (onr *OneNodeReader) BlockByNumber(ctx context.Context, number *big.Int, full bool) (*walletcommon.Block, error) {
	cli, err := onr.Client()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	var raw *rpcBlock
	if err := cli.CallContext(timeout, &raw, "eth_getBlockByNumber", toBlockNumArg(number), full); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return raw.toBlock(full)
}

func (b *rpcBlock) toBlock(full bool) (*walletcommon.Block, error) {
	block := &walletcommon.Block{
		Number:       uint64(b.Number),
		Hash:         b.Hash,
		Timestamp:    time.Unix(int64(b.Timestamp), 0).UTC(),
		Transactions: make([]walletcommon.BlockTransaction, 0, len(b.Transactions)),
	}
	for i, msg := range b.Transactions {
		if !full {
			var hash common.Hash
			if err := json.Unmarshal(msg, &hash); err != nil {
				return nil, fmt.Errorf("block %d: transaction %d: %w", block.Number, i, err)
			}
			block.Transactions = append(block.Transactions, walletcommon.BlockTransaction{Hash: hash})
			continue
		}
		var tx rpcTransaction
		if err := json.Unmarshal(msg, &tx); err != nil {
			return nil, fmt.Errorf("block %d: transaction %d: %w", block.Number, i, err)
		}
		value := big.NewInt(0)
		if tx.Value != nil {
			value = tx.Value.ToInt()
		}
		block.Transactions = append(block.Transactions, walletcommon.BlockTransaction{
			Hash:  tx.Hash,
			From:  tx.From,
			To:    tx.To,
			Value: value,
			Input: tx.Input,
			Nonce: uint64(tx.Nonce),
		})
	}
	return block, nil
}
