package batchclient

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nftsweep/sdk-go/core/settlement"
	clientType "github.com/nftsweep/sdk-go/core/types"
	"github.com/nftsweep/sdk-go/core/util"
	"github.com/pkg/errors"
)

// FileDocument is the on-disk snapshot of a listing API response.
// Terms are keyed by order hash for listings that do not embed them.
type FileDocument struct {
	Listings []clientType.RawListing   `json:"listings"`
	Terms    map[string]json.RawMessage `json:"terms,omitempty"`
}

// FileSource serves listings and terms from a FileDocument. It satisfies both
// ListingSource and TermsSource, for offline builds and tests.
type FileSource struct {
	doc FileDocument
}

var (
	_ clientType.ListingSource = (*FileSource)(nil)
	_ clientType.TermsSource   = (*FileSource)(nil)
)

func NewFileSource(doc FileDocument) *FileSource {
	return &FileSource{doc: doc}
}

// LoadFileSource reads a FileDocument from a JSON file
func LoadFileSource(path string) (*FileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var doc FileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode listings file %s", path)
	}
	return NewFileSource(doc), nil
}

// ListListings returns the records matching the query collection and protocol.
// Records that do not name a collection match any collection. Item filtering
// is left to the normalizer.
func (s *FileSource) ListListings(ctx context.Context, query clientType.ListingQuery) ([]clientType.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]clientType.RawListing, 0, len(s.doc.Listings))
	for _, rec := range s.doc.Listings {
		if query.Collection != (common.Address{}) && rec.Collection != "" {
			collection, err := util.ParseAddress(rec.Collection)
			if err == nil && collection != query.Collection {
				continue
			}
		}
		if query.Protocol != clientType.ProtocolUnknown && !recordHasProtocol(rec, query.Protocol) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func recordHasProtocol(rec clientType.RawListing, protocol clientType.Protocol) bool {
	if rec.Protocol != "" {
		p, err := clientType.ParseProtocol(rec.Protocol)
		return err == nil && p == protocol
	}
	p, ok := clientType.ProtocolForAddress(common.HexToAddress(strings.TrimSpace(rec.ProtocolAddress)))
	return ok && p == protocol
}

// FetchTerms decodes the stored terms of order
func (s *FileSource) FetchTerms(ctx context.Context, order clientType.OrderInfo, _ common.Address) (clientType.ProtocolTerms, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, ok := s.doc.Terms[order.OrderHash]
	if !ok {
		return nil, errors.Errorf("no terms stored for order %s", order.OrderHash)
	}
	return settlement.DecodeTerms(order.Protocol, raw)
}
