package settlement

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/pkg/errors"
)

// DecodeSeaportCalldata parses fulfillAvailableAdvancedOrders calldata back into its arguments
func DecodeSeaportCalldata(data []byte) (*SeaportFulfillAvailableCall, error) {
	args, err := unpackCall(SeaportABI, seaportFulfillAvailableMethod, data)
	if err != nil {
		return nil, err
	}
	if len(args) != 7 {
		return nil, errors.Errorf("expected 7 arguments, got %d", len(args))
	}

	call := &SeaportFulfillAvailableCall{
		AdvancedOrders:            *abi.ConvertType(args[0], new([]SeaportAdvancedOrder)).(*[]SeaportAdvancedOrder),
		CriteriaResolvers:         *abi.ConvertType(args[1], new([]SeaportCriteriaResolver)).(*[]SeaportCriteriaResolver),
		OfferFulfillments:         *abi.ConvertType(args[2], new([][]SeaportFulfillmentComponent)).(*[][]SeaportFulfillmentComponent),
		ConsiderationFulfillments: *abi.ConvertType(args[3], new([][]SeaportFulfillmentComponent)).(*[][]SeaportFulfillmentComponent),
		FulfillerConduitKey:       *abi.ConvertType(args[4], new([32]byte)).(*[32]byte),
		Recipient:                 *abi.ConvertType(args[5], new(common.Address)).(*common.Address),
		MaximumFulfilled:          *abi.ConvertType(args[6], new(*big.Int)).(**big.Int),
	}
	return call, nil
}

// DecodeLooksRareCalldata parses executeMultipleTakerBids calldata back into its arguments
func DecodeLooksRareCalldata(data []byte) (*LooksRareExecuteMultipleCall, error) {
	args, err := unpackCall(LooksRareABI, looksRareExecuteMultipleMethod, data)
	if err != nil {
		return nil, err
	}
	if len(args) != 6 {
		return nil, errors.Errorf("expected 6 arguments, got %d", len(args))
	}

	call := &LooksRareExecuteMultipleCall{
		TakerBids:       *abi.ConvertType(args[0], new([]LooksRareTaker)).(*[]LooksRareTaker),
		MakerAsks:       *abi.ConvertType(args[1], new([]LooksRareMaker)).(*[]LooksRareMaker),
		MakerSignatures: *abi.ConvertType(args[2], new([][]byte)).(*[][]byte),
		MerkleTrees:     *abi.ConvertType(args[3], new([]LooksRareMerkleTree)).(*[]LooksRareMerkleTree),
		Affiliate:       *abi.ConvertType(args[4], new(common.Address)).(*common.Address),
		IsAtomic:        *abi.ConvertType(args[5], new(bool)).(*bool),
	}
	return call, nil
}

// DetectProtocol identifies the batch entry point from the calldata selector
func DetectProtocol(data []byte) (types.Protocol, error) {
	if len(data) < 4 {
		return types.ProtocolUnknown, errors.New("calldata shorter than a selector")
	}
	switch {
	case bytes.Equal(data[:4], SeaportABI.Methods[seaportFulfillAvailableMethod].ID):
		return types.ProtocolSeaport, nil
	case bytes.Equal(data[:4], LooksRareABI.Methods[looksRareExecuteMultipleMethod].ID):
		return types.ProtocolLooksRareV2, nil
	default:
		return types.ProtocolUnknown, errors.Errorf("unknown selector %x", data[:4])
	}
}

func unpackCall(contract abi.ABI, method string, data []byte) ([]any, error) {
	if len(data) < 4 {
		return nil, errors.New("calldata shorter than a selector")
	}
	m, ok := contract.Methods[method]
	if !ok {
		return nil, errors.Errorf("method %s not in ABI", method)
	}
	if !bytes.Equal(data[:4], m.ID) {
		return nil, errors.Errorf("selector %x is not %s", data[:4], m.Sig)
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	return args, nil
}
