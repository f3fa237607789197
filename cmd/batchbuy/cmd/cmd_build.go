package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nftsweep/sdk-go/core/batchclient"
	"github.com/nftsweep/sdk-go/core/logging"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/nftsweep/sdk-go/core/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	FlagListings   = "listings"
	FlagItems      = "items"
	FlagCollection = "collection"
	FlagProtocol   = "protocol"
	FlagRecipient  = "recipient"
)

var cmdBuild = &cobra.Command{
	Use:   "build",
	Short: "Build a batch purchase transaction from a listings file",
	Long: `Reads listings and order terms from a JSON file and prints the transaction
that buys the cheapest listing of every requested item in one call.`,
	RunE: func(c *cobra.Command, args []string) error {
		path, _ := c.Flags().GetString(FlagListings)
		items, _ := c.Flags().GetString(FlagItems)
		collection, _ := c.Flags().GetString(FlagCollection)
		protocol, _ := c.Flags().GetString(FlagProtocol)
		recipient, _ := c.Flags().GetString(FlagRecipient)

		input, err := purchaseInput(cfg, items, collection, protocol, recipient)
		if err != nil {
			return err
		}

		source, err := batchclient.LoadFileSource(path)
		if err != nil {
			return err
		}

		client, err := batchclient.NewClient(source,
			batchclient.WithTermsSource(source),
			batchclient.WithConcurrency(cfg.Concurrency),
			batchclient.WithLogger(logging.Logger),
		)
		if err != nil {
			return err
		}

		result, err := client.BuildPurchase(context.Background(), input)
		if err != nil {
			return err
		}

		return printResult(result)
	},
}

func init() {
	cmdBuild.Flags().String(FlagListings, "listings.json", "listings file")
	cmdBuild.Flags().String(FlagItems, "", "comma separated token ids to buy")
	cmdBuild.Flags().String(FlagCollection, "", "collection contract address")
	cmdBuild.Flags().String(FlagProtocol, "", "only use listings from this protocol (seaport, looksrare)")
	cmdBuild.Flags().String(FlagRecipient, "", "receiver of the purchased items, overrides BATCHBUY_RECIPIENT")
}

// purchaseInput merges command flags over the environment configuration
func purchaseInput(cfg *Config, items, collection, protocol, recipient string) (types.PurchaseInput, error) {
	params, err := cfg.BatchParams()
	if err != nil {
		return types.PurchaseInput{}, err
	}

	if recipient != "" {
		params.Recipient, err = util.ParseAddress(recipient)
		if err != nil {
			return types.PurchaseInput{}, errors.Wrap(err, "recipient")
		}
	}

	input := types.PurchaseInput{
		ItemIDs: splitList(items),
		Params:  params,
	}

	input.Collection, err = util.ParseOptionalAddress(collection)
	if err != nil {
		return types.PurchaseInput{}, errors.Wrap(err, "collection")
	}

	if protocol != "" {
		input.Protocol, err = types.ParseProtocol(protocol)
		if err != nil {
			return types.PurchaseInput{}, err
		}
	}

	return input, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type buildOutput struct {
	RequestID string        `json:"request_id"`
	Orders    []string      `json:"orders"`
	Tx        *types.TxPlan `json:"tx"`
	ValueEth  string        `json:"value_eth"`
}

func printResult(result *types.PurchaseResult) error {
	out := buildOutput{
		RequestID: result.RequestID,
		Orders:    make([]string, 0, len(result.Orders)),
		Tx:        result.Tx,
		ValueEth:  util.FormatEther(result.Tx.Value),
	}
	for _, o := range result.Orders {
		out.Orders = append(out.Orders, o.OrderHash)
	}

	js, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal result")
	}
	fmt.Fprintln(os.Stdout, string(js))
	return nil
}
