package batchclient

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nftsweep/sdk-go/core/logging"
	"github.com/nftsweep/sdk-go/core/settlement"
	clientType "github.com/nftsweep/sdk-go/core/types"
	"github.com/nftsweep/sdk-go/core/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds concurrent terms fetches
const DefaultConcurrency = 8

type Client struct {
	Listings    clientType.ListingSource `validate:"required"`
	Terms       clientType.TermsSource
	Builder     *settlement.Builder `validate:"required"`
	Concurrency int                 `validate:"min=1,max=64"`
	logger      *zap.Logger
}

var _ clientType.Client = (*Client)(nil)

type Option func(*Client)

var inputValidator = clientType.NewValidator()

func NewClient(listings clientType.ListingSource, options ...Option) (*Client, error) {
	c := &Client{
		Listings:    listings,
		Builder:     settlement.DefaultBuilder(),
		Concurrency: DefaultConcurrency,
		logger:      logging.Logger,
	}
	for _, option := range options {
		option(c)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}

func (c *Client) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// WithTermsSource sets where fulfillment terms are fetched for listings that arrive without them
func WithTermsSource(terms clientType.TermsSource) Option {
	return func(c *Client) {
		c.Terms = terms
	}
}

func WithBuilder(builder *settlement.Builder) Option {
	return func(c *Client) {
		c.Builder = builder
	}
}

func WithConcurrency(n int) Option {
	return func(c *Client) {
		c.Concurrency = n
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// BuildPurchase discovers listings for input.ItemIDs and builds one batch purchase
func (c *Client) BuildPurchase(ctx context.Context, input clientType.PurchaseInput) (*clientType.PurchaseResult, error) {
	if err := inputValidator.Struct(input); err != nil {
		return nil, errors.Wrap(clientType.ErrInvalidParams, err.Error())
	}

	records, err := c.Listings.ListListings(ctx, clientType.ListingQuery{
		Collection: input.Collection,
		ItemIDs:    input.ItemIDs,
		Protocol:   input.Protocol,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list listings")
	}
	return c.BuildFromListings(ctx, records, input)
}

// BuildFromListings normalizes records, attaches missing terms and encodes the batch.
// Orders whose terms cannot be fetched are dropped and logged; the batch is
// built from the remaining orders. Terms that arrive but are malformed fail the
// whole batch.
func (c *Client) BuildFromListings(ctx context.Context, records []clientType.RawListing, input clientType.PurchaseInput) (*clientType.PurchaseResult, error) {
	requestID := uuid.NewString()
	logger := c.logger.With(zap.String("request_id", requestID))

	orders, err := settlement.NormalizeProtocol(records, input.ItemIDs, input.Protocol)
	if err != nil {
		return nil, err
	}
	logger.Debug("normalized listings", zap.Int("records", len(records)), zap.Int("orders", len(orders)))

	orders, err = c.attachTerms(ctx, logger, orders, input.Params.Recipient)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, errors.WithStack(clientType.ErrEmptyBatch)
	}

	tx, err := c.Builder.Build(orders, input.Params)
	if err != nil {
		return nil, err
	}

	logger.Info("built batch purchase",
		zap.String("protocol", orders[0].Protocol.String()),
		zap.String("to", tx.To.Hex()),
		zap.Int("orders", len(orders)),
		zap.String("value_eth", util.FormatEther(tx.Value)),
		zap.Int("calldata_bytes", len(tx.Data)),
	)
	return &clientType.PurchaseResult{RequestID: requestID, Orders: orders, Tx: tx}, nil
}

// attachTerms fetches terms for every order that has none, at most
// c.Concurrency at a time. Order is preserved.
func (c *Client) attachTerms(ctx context.Context, logger *zap.Logger, orders []clientType.OrderInfo, fulfiller common.Address) ([]clientType.OrderInfo, error) {
	if c.Terms == nil {
		for i, order := range orders {
			if order.Terms == nil {
				return nil, clientType.MalformedOrder(i, order.OrderHash, "terms", "listing has no terms and no terms source is configured")
			}
		}
		return orders, nil
	}

	terms := make([]clientType.ProtocolTerms, len(orders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)

	for i := range orders {
		if orders[i].Terms != nil {
			terms[i] = orders[i].Terms
			continue
		}
		i := i
		g.Go(func() error {
			fetched, err := c.Terms.FetchTerms(gctx, orders[i], fulfiller)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if malformedTerms(err) {
					return clientType.MalformedOrderFrom(i, orders[i].OrderHash, err)
				}
				logger.Warn("dropping order, terms unavailable",
					zap.String("order_hash", orders[i].OrderHash),
					zap.String("item_id", orders[i].ItemID.String()),
					zap.Error(err),
				)
				return nil
			}
			terms[i] = fetched
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "fetch order terms")
	}

	kept := make([]clientType.OrderInfo, 0, len(orders))
	for i, order := range orders {
		if terms[i] == nil {
			continue
		}
		kept = append(kept, order.WithTerms(terms[i]))
	}
	return kept, nil
}

// malformedTerms reports whether a fetch failed on the content of the terms
// rather than on their availability
func malformedTerms(err error) bool {
	var fe *clientType.FieldError
	return errors.As(err, &fe) || errors.Is(err, clientType.ErrMalformedOrder)
}
