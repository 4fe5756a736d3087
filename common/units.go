package common

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const MaxDecimals = 36

// Amount is a display unit value together with the exponent that relates
// it to base units. It is exact: no binary floating point is involved.
type Amount struct {
	Value    decimal.Decimal
	Decimals int32
}

func checkDecimals(decimals int) error {
	if decimals < 0 || decimals > MaxDecimals {
		return fmt.Errorf("%w: %d is outside [0, %d]", ErrInvalidDecimals, decimals, MaxDecimals)
	}
	return nil
}

// ToDisplayUnits converts an integer amount of base units into display units,
// e.g. 1500000000000000000 wei with 18 decimals is 1.5.
func ToDisplayUnits(base *big.Int, decimals int) (Amount, error) {
	if err := checkDecimals(decimals); err != nil {
		return Amount{}, err
	}
	if base == nil {
		base = big.NewInt(0)
	}
	return Amount{
		Value:    decimal.NewFromBigInt(base, int32(-decimals)),
		Decimals: int32(decimals),
	}, nil
}

// ToBaseUnits is the inverse of ToDisplayUnits. It fails with
// ErrPrecisionLoss rather than rounding when display has more fractional
// digits than decimals.
func ToBaseUnits(display decimal.Decimal, decimals int) (*big.Int, error) {
	if err := checkDecimals(decimals); err != nil {
		return nil, err
	}
	shifted := display.Shift(int32(decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s with %d decimals", ErrPrecisionLoss, display.String(), decimals)
	}
	return shifted.BigInt(), nil
}

// ParseDisplayAmount reads a decimal string such as "1.25" typed by a user.
func ParseDisplayAmount(s string, decimals int) (Amount, error) {
	if err := checkDecimals(decimals); err != nil {
		return Amount{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("couldn't parse amount %q: %w", s, err)
	}
	if _, err := ToBaseUnits(d, decimals); err != nil {
		return Amount{}, err
	}
	return Amount{Value: d, Decimals: int32(decimals)}, nil
}

func ZeroAmount(decimals int) Amount {
	return Amount{Value: decimal.Zero, Decimals: int32(decimals)}
}

// BaseUnits returns the exact integer amount of base units.
func (a Amount) BaseUnits() *big.Int {
	return a.Value.Shift(a.Decimals).BigInt()
}

func (a Amount) Add(b Amount) (Amount, error) {
	if a.Decimals != b.Decimals {
		return Amount{}, fmt.Errorf("%w: %d and %d", ErrUnitMismatch, a.Decimals, b.Decimals)
	}
	return Amount{Value: a.Value.Add(b.Value), Decimals: a.Decimals}, nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Decimals != b.Decimals {
		return Amount{}, fmt.Errorf("%w: %d and %d", ErrUnitMismatch, a.Decimals, b.Decimals)
	}
	return Amount{Value: a.Value.Sub(b.Value), Decimals: a.Decimals}, nil
}

func (a Amount) Cmp(b Amount) (int, error) {
	if a.Decimals != b.Decimals {
		return 0, fmt.Errorf("%w: %d and %d", ErrUnitMismatch, a.Decimals, b.Decimals)
	}
	return a.Value.Cmp(b.Value), nil
}

func (a Amount) IsZero() bool {
	return a.Value.IsZero()
}

func (a Amount) String() string {
	return a.Value.String()
}

type amountJSON struct {
	Value    string `json:"value"`
	Decimals int32  `json:"decimals"`
}

// MarshalJSON writes the value as a decimal string so storage never coerces
// it into a float.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(amountJSON{Value: a.Value.String(), Decimals: a.Decimals})
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw amountJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := checkDecimals(int(raw.Decimals)); err != nil {
		return err
	}
	value, err := decimal.NewFromString(raw.Value)
	if err != nil {
		return fmt.Errorf("couldn't parse amount %q: %w", raw.Value, err)
	}
	a.Value = value
	a.Decimals = raw.Decimals
	return nil
}

// GweiToWei converts a gas price in gwei into wei. Sub-wei fractions are
// truncated since no node accepts them anyway.
func GweiToWei(gwei decimal.Decimal) *big.Int {
	return gwei.Shift(9).Truncate(0).BigInt()
}

// WeiToGwei is exact.
func WeiToGwei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -9)
}
