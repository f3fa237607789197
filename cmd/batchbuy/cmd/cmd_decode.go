package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nftsweep/sdk-go/core/settlement"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/nftsweep/sdk-go/core/util"
	"github.com/spf13/cobra"
)

var cmdDecode = &cobra.Command{
	Use:   "decode <calldata>",
	Short: "Summarize batch purchase calldata",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		data, err := util.ParseHexBytes(strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		return describeCalldata(os.Stdout, data)
	},
}

func describeCalldata(w io.Writer, data []byte) error {
	protocol, err := settlement.DetectProtocol(data)
	if err != nil {
		return err
	}

	switch protocol {
	case types.ProtocolSeaport:
		call, err := settlement.DecodeSeaportCalldata(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "protocol:          %s\n", protocol)
		fmt.Fprintf(w, "recipient:         %s\n", call.Recipient.Hex())
		fmt.Fprintf(w, "maximum fulfilled: %s\n", call.MaximumFulfilled)
		fmt.Fprintf(w, "orders:            %d\n", len(call.AdvancedOrders))
		for i, order := range call.AdvancedOrders {
			p := order.Parameters
			if len(p.Offer) == 0 {
				fmt.Fprintf(w, "  [%d] offerer %s empty offer\n", i, p.Offerer.Hex())
				continue
			}
			fmt.Fprintf(w, "  [%d] offerer %s token %s id %s consideration items %d\n",
				i, p.Offerer.Hex(), p.Offer[0].Token.Hex(), p.Offer[0].IdentifierOrCriteria, len(p.Consideration))
		}

	case types.ProtocolLooksRareV2:
		call, err := settlement.DecodeLooksRareCalldata(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "protocol:  %s\n", protocol)
		fmt.Fprintf(w, "affiliate: %s\n", call.Affiliate.Hex())
		fmt.Fprintf(w, "atomic:    %t\n", call.IsAtomic)
		fmt.Fprintf(w, "orders:    %d\n", len(call.MakerAsks))
		for i, ask := range call.MakerAsks {
			fmt.Fprintf(w, "  [%d] signer %s collection %s ids %v price %s\n",
				i, ask.Signer.Hex(), ask.Collection.Hex(), ask.ItemIds, util.FormatEther(ask.Price))
		}
	}

	return nil
}
