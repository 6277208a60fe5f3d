package cart

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foodsupplychain/procurement/internal/catalog"
	"github.com/foodsupplychain/procurement/pkg/enums"
	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of expected delivery dates.
const DateLayout = "2006-01-02"

// Line is one confirmed product selection. Product fields are a snapshot taken
// when the line was added; the cart never re-reads live stock.
type Line struct {
	ID                   string                `json:"id"`
	ProductID            string                `json:"product_id"`
	ProductName          string                `json:"product_name"`
	Category             enums.ProductCategory `json:"category,omitempty"`
	VendorID             string                `json:"vendor_id"`
	VendorName           string                `json:"vendor_name"`
	VendorCompanyName    string                `json:"vendor_company_name"`
	Unit                 enums.ProductUnit     `json:"unit"`
	Quantity             int                   `json:"quantity"`
	UnitPrice            decimal.Decimal       `json:"unit_price"`
	LineTotal            decimal.Decimal       `json:"line_total"`
	DeliveryAddress      string                `json:"delivery_address"`
	ExpectedDeliveryDate time.Time             `json:"expected_delivery_date"`
	Notes                string                `json:"notes,omitempty"`
	AddedAt              time.Time             `json:"added_at"`
}

// LineInput is what the buyer confirms for one product.
type LineInput struct {
	Quantity             int
	DeliveryAddress      string
	ExpectedDeliveryDate time.Time
	Notes                string
}

// Cart is an ordered list of lines; insertion order is display order.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty cart owned by sessionID.
func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []Line{}}
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Lines)
}

// Total sums every line total.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

// Add validates the input against the product snapshot and appends a line.
// The cart is left untouched when validation fails.
func (c *Cart) Add(product catalog.Product, in LineInput, now time.Time) (Line, error) {
	if err := validateQuantity(product, in.Quantity); err != nil {
		return Line{}, err
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" || in.ExpectedDeliveryDate.IsZero() {
		return Line{}, pkgerrors.New(pkgerrors.CodeMissingDeliveryInfo, "delivery address and expected delivery date are required")
	}
	expected := civilDate(in.ExpectedDeliveryDate)
	if expected.Before(civilDate(now)) {
		return Line{}, pkgerrors.New(pkgerrors.CodeMissingDeliveryInfo, "expected delivery date cannot be in the past")
	}

	line := Line{
		ID:                   uuid.NewString(),
		ProductID:            product.ID,
		ProductName:          product.Name,
		Category:             product.Category,
		VendorID:             product.VendorID,
		VendorName:           product.VendorName,
		VendorCompanyName:    product.VendorCompanyName,
		Unit:                 product.Unit,
		Quantity:             in.Quantity,
		UnitPrice:            product.PricePerUnit,
		LineTotal:            product.PricePerUnit.Mul(decimal.NewFromInt(int64(in.Quantity))),
		DeliveryAddress:      address,
		ExpectedDeliveryDate: expected,
		Notes:                strings.TrimSpace(in.Notes),
		AddedAt:              now.UTC(),
	}
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = now.UTC()
	return line, nil
}

// Remove deletes the line at index, keeping the order of the others.
func (c *Cart) Remove(index int, now time.Time) (Line, error) {
	if index < 0 || index >= c.Len() {
		return Line{}, pkgerrors.New(pkgerrors.CodeIndexOutOfRange, fmt.Sprintf("cart has no line at position %d", index))
	}
	removed := c.Lines[index]
	lines := make([]Line, 0, len(c.Lines)-1)
	lines = append(lines, c.Lines[:index]...)
	lines = append(lines, c.Lines[index+1:]...)
	c.Lines = lines
	c.UpdatedAt = now.UTC()
	return removed, nil
}

// Clear drops every line.
func (c *Cart) Clear(now time.Time) {
	c.Lines = []Line{}
	c.UpdatedAt = now.UTC()
}

func validateQuantity(product catalog.Product, quantity int) error {
	switch {
	case quantity <= 0:
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be a positive whole number")
	case quantity < product.MinimumQuantity():
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, fmt.Sprintf("minimum order quantity is %d", product.MinimumQuantity()))
	case quantity > product.AvailableQuantity:
		return pkgerrors.New(pkgerrors.CodeInvalidQuantity, fmt.Sprintf("only %d available", product.AvailableQuantity))
	}
	return nil
}

// ParseQuantity reads a quantity sent either as a JSON number or a string.
func ParseQuantity(raw json.RawMessage) (int, error) {
	value := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if value == "" || value == "null" {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity is required")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInvalidQuantity, err, "quantity must be a positive whole number")
	}
	if quantity <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be a positive whole number")
	}
	return quantity, nil
}

// ParseDeliveryDate parses a YYYY-MM-DD date. An empty value is reported as
// missing delivery info.
func ParseDeliveryDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeMissingDeliveryInfo, "expected delivery date is required")
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "expected delivery date must be formatted as YYYY-MM-DD")
	}
	return parsed, nil
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
