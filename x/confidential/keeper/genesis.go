package keeper

import (
	"context"
	"fmt"

	"github.com/veil-protocol/veil/x/confidential/types"
)

// InitGenesis initializes the confidential module state from genesis.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(fmt.Sprintf("failed to set confidential params: %v", err))
	}

	if genState.EnclaveKey != nil {
		if err := k.SetEnclaveKey(ctx, genState.EnclaveKey.PubKey); err != nil {
			panic(fmt.Sprintf("failed to set enclave key: %v", err))
		}
	}

	for _, ct := range genState.Ciphertexts {
		if err := k.SetCiphertext(ctx, ct); err != nil {
			panic(fmt.Sprintf("failed to import ciphertext %s: %v", ct.Handle, err))
		}
	}
	for _, allowance := range genState.Allowances {
		if err := k.setAllowance(ctx, allowance); err != nil {
			panic(fmt.Sprintf("failed to import allowance: %v", err))
		}
	}

	k.setOpNonce(ctx, genState.OpNonce)
}

// ExportGenesis exports the confidential module state for genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to get confidential params: %v", err))
	}

	genState := &types.GenesisState{
		Params:      params,
		Ciphertexts: []types.Ciphertext{},
		Allowances:  []types.Allowance{},
		OpNonce:     k.GetOpNonce(ctx),
	}

	if record, err := k.GetEnclaveKey(ctx); err == nil {
		genState.EnclaveKey = &record
	}

	if err := k.IterateCiphertexts(ctx, func(ct types.Ciphertext) bool {
		genState.Ciphertexts = append(genState.Ciphertexts, ct)
		return false
	}); err != nil {
		panic(fmt.Sprintf("failed to export ciphertexts: %v", err))
	}

	if err := k.IterateAllowances(ctx, func(allowance types.Allowance) bool {
		genState.Allowances = append(genState.Allowances, allowance)
		return false
	}); err != nil {
		panic(fmt.Sprintf("failed to export allowances: %v", err))
	}

	return genState
}
