package types

import (
	"fmt"
)

// GenesisState defines the oracle module's genesis state.
type GenesisState struct {
	Params Params  `json:"params"`
	Prices []Price `json:"prices"`
}

func (gs *GenesisState) Reset()         { *gs = GenesisState{} }
func (gs *GenesisState) String() string { return fmt.Sprintf("%+v", *gs) }
func (gs *GenesisState) ProtoMessage()  {}

// DefaultGenesis returns the default genesis state for the oracle module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Prices: []Price{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(gs.Prices))
	for _, price := range gs.Prices {
		if err := price.Validate(); err != nil {
			return fmt.Errorf("invalid price for asset %q: %w", price.Asset, err)
		}
		if _, ok := seen[price.Asset]; ok {
			return fmt.Errorf("duplicate price for asset %q", price.Asset)
		}
		seen[price.Asset] = struct{}{}
	}
	return nil
}
