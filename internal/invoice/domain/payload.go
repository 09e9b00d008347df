package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ErrMalformedPayload reports a synchronization payload that is not JSON or
// does not have the expected shape.
var ErrMalformedPayload = errors.New("malformed_payload")

// SyncPayload is the desired set of line items described by the legacy
// free-text field:
//
//	{"items": [{"product_id": 1, "quantity": 2, "price": 10.5, "tax": 21}]}
type SyncPayload struct {
	Items []SyncItem
}

// SyncItem is one desired line. ProductID is nil for custom items.
type SyncItem struct {
	ProductID *snowflake.ID
	Name      string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	TaxRate   decimal.Decimal
}

type syncPayloadJSON struct {
	Items *[]*syncItemJSON `json:"items"`
}

type syncItemJSON struct {
	ProductID *payloadID       `json:"product_id"`
	Name      *string          `json:"name"`
	Quantity  *decimal.Decimal `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
	Tax       *decimal.Decimal `json:"tax"`
}

// payloadID accepts an integer id written either as a JSON number or a string.
type payloadID int64

func (id *payloadID) UnmarshalJSON(data []byte) error {
	text := string(bytes.TrimSpace(data))
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(unquoted)
	}
	parsed, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("product_id %s is not an integer", data)
	}
	*id = payloadID(parsed)
	return nil
}

// ParseSyncPayload decodes raw into a SyncPayload. Every item needs a
// quantity and a price; tax defaults to zero and product_id may be null.
// Values that do not fit the line item columns make the payload malformed.
func ParseSyncPayload(raw string) (SyncPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SyncPayload{}, fmt.Errorf("%w: empty input", ErrMalformedPayload)
	}

	var decoded syncPayloadJSON
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return SyncPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if decoded.Items == nil {
		return SyncPayload{}, fmt.Errorf("%w: missing items", ErrMalformedPayload)
	}

	payload := SyncPayload{Items: make([]SyncItem, 0, len(*decoded.Items))}
	for i, item := range *decoded.Items {
		if item == nil {
			return SyncPayload{}, fmt.Errorf("%w: item %d is null", ErrMalformedPayload, i)
		}
		if item.Quantity == nil || item.Price == nil {
			return SyncPayload{}, fmt.Errorf("%w: item %d requires quantity and price", ErrMalformedPayload, i)
		}

		parsed := SyncItem{
			Quantity: *item.Quantity,
			Price:    *item.Price,
			TaxRate:  decimal.Zero,
		}
		if item.Tax != nil {
			parsed.TaxRate = *item.Tax
		}
		if err := CheckLineRange(parsed.Price, parsed.Quantity, parsed.TaxRate); err != nil {
			return SyncPayload{}, fmt.Errorf("%w: item %d: %v", ErrMalformedPayload, i, err)
		}
		if item.ProductID != nil && *item.ProductID > 0 {
			id := snowflake.ID(*item.ProductID)
			parsed.ProductID = &id
		}
		if item.Name != nil {
			parsed.Name = strings.TrimSpace(*item.Name)
		}
		payload.Items = append(payload.Items, parsed)
	}

	return payload, nil
}
