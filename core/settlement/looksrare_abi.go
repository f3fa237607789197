package settlement

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const looksRareExecuteMultipleMethod = "executeMultipleTakerBids"

const looksRareExecuteMultipleABIJSON = `[{
  "type": "function",
  "name": "executeMultipleTakerBids",
  "stateMutability": "payable",
  "inputs": [
    {"name": "takerBids", "type": "tuple[]", "components": [
      {"name": "recipient", "type": "address"},
      {"name": "additionalParameters", "type": "bytes"}
    ]},
    {"name": "makerAsks", "type": "tuple[]", "components": [
      {"name": "quoteType", "type": "uint8"},
      {"name": "globalNonce", "type": "uint256"},
      {"name": "subsetNonce", "type": "uint256"},
      {"name": "orderNonce", "type": "uint256"},
      {"name": "strategyId", "type": "uint256"},
      {"name": "collectionType", "type": "uint8"},
      {"name": "collection", "type": "address"},
      {"name": "currency", "type": "address"},
      {"name": "signer", "type": "address"},
      {"name": "startTime", "type": "uint256"},
      {"name": "endTime", "type": "uint256"},
      {"name": "price", "type": "uint256"},
      {"name": "itemIds", "type": "uint256[]"},
      {"name": "amounts", "type": "uint256[]"},
      {"name": "additionalParameters", "type": "bytes"}
    ]},
    {"name": "makerSignatures", "type": "bytes[]"},
    {"name": "merkleTrees", "type": "tuple[]", "components": [
      {"name": "root", "type": "bytes32"},
      {"name": "proof", "type": "tuple[]", "components": [
        {"name": "value", "type": "bytes32"},
        {"name": "position", "type": "uint8"}
      ]}
    ]},
    {"name": "affiliate", "type": "address"},
    {"name": "isAtomic", "type": "bool"}
  ],
  "outputs": []
}]`

// LooksRareABI is the parsed LooksRare v2 batch execution interface
var LooksRareABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(looksRareExecuteMultipleABIJSON))
	if err != nil {
		panic(fmt.Sprintf("failed to parse LooksRare ABI: %v", err))
	}
	LooksRareABI = parsed
}

type LooksRareTaker struct {
	Recipient            common.Address
	AdditionalParameters []byte
}

type LooksRareMaker struct {
	QuoteType            uint8
	GlobalNonce          *big.Int
	SubsetNonce          *big.Int
	OrderNonce           *big.Int
	StrategyId           *big.Int
	CollectionType       uint8
	Collection           common.Address
	Currency             common.Address
	Signer               common.Address
	StartTime            *big.Int
	EndTime              *big.Int
	Price                *big.Int
	ItemIds              []*big.Int
	Amounts              []*big.Int
	AdditionalParameters []byte
}

type LooksRareMerkleNode struct {
	Value    [32]byte
	Position uint8
}

type LooksRareMerkleTree struct {
	Root  [32]byte
	Proof []LooksRareMerkleNode
}

// LooksRareExecuteMultipleCall holds the arguments of an executeMultipleTakerBids call
type LooksRareExecuteMultipleCall struct {
	TakerBids       []LooksRareTaker
	MakerAsks       []LooksRareMaker
	MakerSignatures [][]byte
	MerkleTrees     []LooksRareMerkleTree
	Affiliate       common.Address
	IsAtomic        bool
}

func (c *LooksRareExecuteMultipleCall) pack() ([]byte, error) {
	return LooksRareABI.Pack(looksRareExecuteMultipleMethod,
		c.TakerBids,
		c.MakerAsks,
		c.MakerSignatures,
		c.MerkleTrees,
		c.Affiliate,
		c.IsAtomic,
	)
}
