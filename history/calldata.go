package history

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const (
	selectorLength     = 4
	wordLength         = 32
	transferCallLength = selectorLength + 2*wordLength
)

// errNotTransfer marks call data that is well formed but calls something
// other than transfer(address,uint256), e.g. approve.
var errNotTransfer = errors.New("not a transfer call")

// DecodeTransferCallData reads the recipient and amount out of an ERC20
// transfer(address,uint256) call. Bytes after the two arguments are
// ignored.
func DecodeTransferCallData(data []byte) (common.Address, *big.Int, error) {
	if len(data) < selectorLength {
		return common.Address{}, nil, fmt.Errorf("%w: %d bytes, no selector", walletcommon.ErrMalformedCallData, len(data))
	}
	if !bytes.Equal(data[:selectorLength], walletcommon.TransferMethodID()) {
		return common.Address{}, nil, fmt.Errorf("%w: selector %x", errNotTransfer, data[:selectorLength])
	}
	if len(data) < transferCallLength {
		return common.Address{}, nil, fmt.Errorf(
			"%w: transfer call has %d bytes, want %d",
			walletcommon.ErrMalformedCallData, len(data), transferCallLength,
		)
	}
	addrWord := data[selectorLength : selectorLength+wordLength]
	padding := addrWord[:wordLength-common.AddressLength]
	if !bytes.Equal(padding, make([]byte, len(padding))) {
		return common.Address{}, nil, fmt.Errorf("%w: recipient word is not an address", walletcommon.ErrMalformedCallData)
	}
	to := common.BytesToAddress(addrWord[wordLength-common.AddressLength:])
	amount := new(big.Int).SetBytes(data[selectorLength+wordLength : transferCallLength])
	return to, amount, nil
}
