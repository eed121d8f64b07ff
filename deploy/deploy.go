// Package deploy provides Split Transfer contract deployment routine.
package deploy

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups deployment parameters of the Split Transfer contract.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It pays for the deployment and becomes the contract owner.
	LocalAccount *wallet.Account

	// Compiled contract.
	NEF      nef.File
	Manifest manifest.Manifest
}

// Deploy deploys Split Transfer contract unless it is already on the chain,
// waits for the deployment transaction to persist and returns the address
// of the contract. The contract owner is the local account.
func Deploy(prm Prm) (util.Uint160, error) {
	l := prm.Logger
	if l == nil {
		l = zap.NewNop()
	}

	sender := prm.LocalAccount.ScriptHash()
	contractAddr := state.CreateContractHash(sender, prm.NEF.Checksum, prm.Manifest.Name)

	_, err := prm.Blockchain.GetContractStateByHash(contractAddr)
	if err == nil {
		l.Info("contract is already deployed, skip", zap.Stringer("contract", contractAddr))
		return contractAddr, nil
	}
	if !strings.Contains(err.Error(), "Unknown contract") {
		return contractAddr, fmt.Errorf("get contract state: %w", err)
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return contractAddr, fmt.Errorf("init actor: %w", err)
	}

	l.Info("sending contract deployment transaction",
		zap.Stringer("contract", contractAddr), zap.Stringer("sender", sender))

	txHash, vub, err := management.New(act).Deploy(&prm.NEF, &prm.Manifest, nil)
	if err != nil {
		return contractAddr, fmt.Errorf("deploy contract: %w", err)
	}

	l.Info("contract deployment transaction sent, waiting for the persistence",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	res, err := act.Wait(txHash, vub, nil)
	if err != nil {
		return contractAddr, fmt.Errorf("wait for deployment transaction persistence: %w", err)
	}
	if res.VMState != vmstate.Halt {
		return contractAddr, fmt.Errorf("deployment transaction failed: %s", res.FaultException)
	}

	l.Info("contract deployed successfully", zap.Stringer("contract", contractAddr))

	return contractAddr, nil
}
