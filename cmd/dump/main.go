package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/split-transfer-contract/rpc/splitter"
)

// storage prefix of the withdrawable amount entries, see the contract.
const accountPrefix = 'a'

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractArg := flag.String("contract", "", "Address (LE script hash) of the Split Transfer contract")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractArg == "":
		log.Fatal("missing contract address")
	}

	contractAddr, err := util.Uint160DecodeStringLE(strings.TrimPrefix(*contractArg, "0x"))
	if err != nil {
		log.Fatal(fmt.Errorf("decode contract address: %w", err))
	}

	err = _dump(*neoRPCEndpoint, contractAddr)
	if err != nil {
		log.Fatal(err)
	}
}

func _dump(neoBlockchainRPCEndpoint string, contractAddr util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	reader := splitter.NewReader(invoker.New(b.rpc, nil), contractAddr)

	owner, err := reader.Owner()
	if err != nil {
		return fmt.Errorf("read contract owner: %w", err)
	}

	fees, err := reader.CollectedFees()
	if err != nil {
		return fmt.Errorf("read collected fees: %w", err)
	}

	version, err := reader.Version()
	if err != nil {
		return fmt.Errorf("read contract version: %w", err)
	}

	log.Printf("contract: %s (version %s)\n", contractAddr.StringLE(), version)
	log.Printf("owner: %s\n", address.Uint160ToString(owner))
	log.Printf("collected fees: %s\n", fees)

	log.Println("withdrawable amounts:")

	return b.iterateContractStorage(contractAddr, []byte{accountPrefix}, func(key, value []byte) error {
		acc, err := util.Uint160DecodeBytesLE(key[1:])
		if err != nil {
			return fmt.Errorf("decode account from storage key: %w", err)
		}

		log.Printf("  %s: %s\n", address.Uint160ToString(acc), bigint.FromBytes(value))
		return nil
	})
}
