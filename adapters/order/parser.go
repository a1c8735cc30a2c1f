// Package order reads HCL order files so an operator can price a whole order
// offline:
//
//	item "celadon" {
//	  format  = "dry"
//	  grams   = 1000
//	  private = true
//	}
//
//	item "tenmoku" {
//	  format   = "wet"
//	  size     = "gallon"
//	  quantity = 2
//	}
package order

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"glazeworks/core/pricing"
	"glazeworks/core/types"
	"glazeworks/internal/errors"
)

// MaxQuantity is the largest quantity an item block may ask for
const MaxQuantity = 10000

// Item is one item block from an order file
type Item struct {
	Name     string
	Format   types.BatchFormat
	Grams    decimal.Decimal
	Size     string
	Private  bool
	Quantity int

	// Line is where the block starts, for error messages
	Line int
}

// Batch validates the item into a pricing batch. Wet items must name a size.
func (it Item) Batch() (pricing.Batch, error) {
	switch it.Format {
	case types.FormatWet:
		if it.Size == "" {
			return nil, errors.Inputf("item %q: wet items require a size", it.Name)
		}
		wet, err := pricing.NewWetBatch(it.Size)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", it.Name, err)
		}
		return wet, nil
	case types.FormatDry:
		if !it.Grams.IsPositive() {
			return nil, errors.Inputf("item %q: grams must be positive, got %s", it.Name, it.Grams)
		}
		return pricing.DryBatch{Grams: it.Grams}, nil
	}
	return nil, errors.Inputf("item %q: format must be dry or wet, got %q", it.Name, it.Format)
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "item", LabelNames: []string{"name"}},
	},
}

var itemSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "format", Required: true},
		{Name: "grams"},
		{Name: "size"},
		{Name: "private"},
		{Name: "quantity"},
	},
}

// Parser parses order files
type Parser struct {
	parser *hclparse.Parser
}

// NewParser creates a new order file parser
func NewParser() *Parser {
	return &Parser{
		parser: hclparse.NewParser(),
	}
}

// ParseFile reads and parses the order file at path.
func (p *Parser) ParseFile(path string) ([]Item, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "read order file", err)
	}
	return p.Parse(src, path)
}

// Parse parses order file source. filename is used in diagnostics only.
func (p *Parser) Parse(src []byte, filename string) ([]Item, error) {
	file, diags := p.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	items := make([]Item, 0, len(content.Blocks))
	seen := make(map[string]bool, len(content.Blocks))
	for _, block := range content.Blocks {
		item, err := parseItem(block)
		if err != nil {
			return nil, err
		}
		if seen[item.Name] {
			return nil, errors.Newf(errors.TypeParsing, "%s:%d: duplicate item %q", filename, item.Line, item.Name)
		}
		seen[item.Name] = true
		items = append(items, item)
	}
	return items, nil
}

func parseItem(block *hcl.Block) (Item, error) {
	item := Item{
		Name:     block.Labels[0],
		Quantity: 1,
		Line:     block.DefRange.Start.Line,
	}

	content, diags := block.Body.Content(itemSchema)
	if diags.HasErrors() {
		return Item{}, diagError(diags)
	}

	for name, attr := range content.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return Item{}, diagError(diags)
		}
		if val.IsNull() {
			continue
		}

		var err error
		switch name {
		case "format":
			var s string
			if s, err = asString(val); err == nil {
				f, ok := types.ParseBatchFormat(s)
				if !ok {
					err = fmt.Errorf("format must be dry or wet, got %q", s)
				}
				item.Format = f
			}
		case "grams":
			item.Grams, err = asDecimal(val)
		case "size":
			item.Size, err = asString(val)
		case "private":
			item.Private, err = asBool(val)
		case "quantity":
			var q decimal.Decimal
			if q, err = asDecimal(val); err == nil {
				switch {
				case !q.IsInteger() || q.LessThan(decimal.NewFromInt(1)):
					err = fmt.Errorf("quantity must be a whole number of at least 1, got %s", q)
				case q.GreaterThan(decimal.NewFromInt(MaxQuantity)):
					err = fmt.Errorf("quantity must be at most %d, got %s", MaxQuantity, q)
				default:
					item.Quantity = int(q.IntPart())
				}
			}
		}
		if err != nil {
			return Item{}, errors.Newf(errors.TypeParsing, "%s: item %q: %s: %v",
				attr.Range.Filename, item.Name, name, err)
		}
	}

	return item, nil
}

func asString(v cty.Value) (string, error) {
	v, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v.AsString()), nil
}

func asDecimal(v cty.Value) (decimal.Decimal, error) {
	v, err := convert.Convert(v, cty.Number)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(v.AsBigFloat().Text('f', -1))
}

func asBool(v cty.Value) (bool, error) {
	v, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, err
	}
	return v.True(), nil
}

func diagError(diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		loc := ""
		if diag.Subject != nil {
			loc = fmt.Sprintf("%s:%d: ", diag.Subject.Filename, diag.Subject.Start.Line)
		}
		msgs = append(msgs, loc+diag.Summary+": "+diag.Detail)
	}
	return errors.Parsing("order file", fmt.Errorf("%s", strings.Join(msgs, "; ")))
}
