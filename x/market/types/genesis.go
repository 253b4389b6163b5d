package types

import (
	"fmt"
)

// GenesisState defines the market module's genesis state.
type GenesisState struct {
	Params  Params   `json:"params"`
	Markets []Market `json:"markets"`
	Bets    []Bet    `json:"bets"`
}

func (gs *GenesisState) Reset()         { *gs = GenesisState{} }
func (gs *GenesisState) String() string { return fmt.Sprintf("%+v", *gs) }
func (gs *GenesisState) ProtoMessage()  {}

// DefaultGenesis returns the default genesis state for the market module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:  DefaultParams(),
		Markets: []Market{},
		Bets:    []Bet{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	markets := make(map[string]struct{}, len(gs.Markets))
	for _, market := range gs.Markets {
		if err := market.Validate(); err != nil {
			return fmt.Errorf("invalid market %s: %w", market.Address, err)
		}
		if _, ok := markets[market.Address]; ok {
			return fmt.Errorf("duplicate market %s", market.Address)
		}
		markets[market.Address] = struct{}{}
	}

	bets := make(map[string]struct{}, len(gs.Bets))
	for _, bet := range gs.Bets {
		if err := bet.Validate(); err != nil {
			return fmt.Errorf("invalid bet %s: %w", bet.Address, err)
		}
		if _, ok := markets[bet.Market]; !ok {
			return fmt.Errorf("bet %s references unknown market %s", bet.Address, bet.Market)
		}
		key := bet.Market + "/" + bet.Owner
		if _, ok := bets[key]; ok {
			return fmt.Errorf("duplicate bet for owner %s on market %s", bet.Owner, bet.Market)
		}
		bets[key] = struct{}{}
	}
	return nil
}
