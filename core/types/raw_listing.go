package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RawListing is one record as delivered by a marketplace listing source.
// Numeric fields are decimal or 0x-prefixed hex strings; Terms carries the protocol-specific
// fulfillment data when the source already knows it.
type RawListing struct {
	OrderHash       string          `json:"order_hash" validate:"required"`
	ProtocolAddress string          `json:"protocol_address" validate:"required,eth_addr"`
	ItemID          string          `json:"item_id" validate:"required,uint_text"`
	Price           string          `json:"price" validate:"required,uint_text"`
	Side            string          `json:"side" validate:"required"`
	Protocol        string          `json:"protocol,omitempty"`
	Collection      string          `json:"collection,omitempty" validate:"omitempty,eth_addr"`
	Terms           json.RawMessage `json:"terms,omitempty"`
}

var listingValidator = NewValidator()

// uintText matches unsigned integers written in decimal or 0x hex; range is checked when parsed
var uintText = regexp.MustCompile(`^([0-9]+|0[xX][0-9a-fA-F]+)$`)

// NewValidator returns a validator that reports json field names and knows the
// uint_text tag
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("uint_text", func(fl validator.FieldLevel) bool {
		return uintText.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate returns a *FieldError naming the first field that is missing or malformed
func (r RawListing) Validate() error {
	err := listingValidator.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return &FieldError{Field: fe.Field()}
	}
	return &FieldError{Field: fe.Field(), Reason: fmt.Sprintf("value %q fails %s", fe.Value(), fe.Tag())}
}
