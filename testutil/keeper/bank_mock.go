package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	markettypes "github.com/veil-protocol/veil/x/market/types"
)

// MockBankKeeper is an in-memory bank keeper for market module tests.
type MockBankKeeper struct {
	balances map[string]sdk.Coins
}

var _ markettypes.BankKeeper = (*MockBankKeeper)(nil)

// NewMockBankKeeper creates an empty in-memory bank.
func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{balances: make(map[string]sdk.Coins)}
}

// FundAccount credits an account out of thin air.
func (m *MockBankKeeper) FundAccount(addr sdk.AccAddress, amt sdk.Coins) {
	m.balances[addr.String()] = m.balances[addr.String()].Add(amt...)
}

// SendCoins moves funds between accounts, failing on insufficient balance.
func (m *MockBankKeeper) SendCoins(_ context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	from := m.balances[fromAddr.String()]
	if !amt.IsAllLTE(from) {
		return fmt.Errorf("insufficient funds: %s has %s, wants to send %s", fromAddr, from, amt)
	}
	m.balances[fromAddr.String()] = from.Sub(amt...)
	m.balances[toAddr.String()] = m.balances[toAddr.String()].Add(amt...)
	return nil
}

// SpendableCoins returns the full balance; the mock tracks no locks.
func (m *MockBankKeeper) SpendableCoins(_ context.Context, addr sdk.AccAddress) sdk.Coins {
	return m.balances[addr.String()]
}

// GetBalance returns the balance of a single denom.
func (m *MockBankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, m.balances[addr.String()].AmountOf(denom))
}
