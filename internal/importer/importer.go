package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/currency"
	"ledger/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CustomerWriter interface {
	Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
}

// Kind is the content of a CSV file, told apart by its header.
type Kind string

const (
	KindProducts  Kind = "products"
	KindCustomers Kind = "customers"
)

// CSVImporter loads products (name,price) or customers (name,balance). Amounts may
// be written the way the configured locale formats them, e.g. "$1,500".
type CSVImporter struct {
	reader      *csv.Reader
	products    ProductWriter
	customers   CustomerWriter
	languageTag string
}

func NewCSVImporter(r io.Reader, products ProductWriter, customers CustomerWriter, languageTag string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		customers:   customers,
		languageTag: languageTag,
	}
}

// DetectKind reads only the header of r.
func DetectKind(r io.Reader) (Kind, error) {
	headers, err := csv.NewReader(r).Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	return kindOf(headerIndex(headers))
}

// Run imports every row and returns how many were saved. Rows without a name are skipped.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	kind, err := kindOf(index)
	if err != nil {
		return 0, err
	}
	switch {
	case kind == KindProducts && i.products == nil:
		return 0, errors.New("products file but no product writer")
	case kind == KindCustomers && i.customers == nil:
		return 0, errors.New("customers file but no customer writer")
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		name := pick(record, index, "name")
		if name == "" {
			continue
		}
		switch kind {
		case KindProducts:
			err = i.saveProduct(ctx, name, pick(record, index, "price"))
		case KindCustomers:
			err = i.saveCustomer(ctx, name, pick(record, index, "balance"))
		}
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, name, rawPrice string) error {
	price, err := i.amount(rawPrice)
	if err != nil {
		return fmt.Errorf("price of %q: %w", name, err)
	}
	if _, err := i.products.Upsert(ctx, domain.Product{Name: name, Price: price}); err != nil {
		return fmt.Errorf("upsert product %q: %w", name, err)
	}
	return nil
}

func (i *CSVImporter) saveCustomer(ctx context.Context, name, rawBalance string) error {
	balance, err := i.amount(rawBalance)
	if err != nil {
		return fmt.Errorf("balance of %q: %w", name, err)
	}
	if _, err := i.customers.Create(ctx, domain.Customer{Name: name, Balance: balance, Debt: decimal.Zero}); err != nil {
		return fmt.Errorf("create customer %q: %w", name, err)
	}
	return nil
}

// amount reads a whole non-negative amount of currency units.
func (i *CSVImporter) amount(raw string) (int64, error) {
	d, err := currency.Parse(raw, i.languageTag)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %q", raw)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("fractional amount %q", raw)
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(1<<63 - 1)) {
		return 0, fmt.Errorf("amount %q too large", raw)
	}
	return d.IntPart(), nil
}

func kindOf(index map[string]int) (Kind, error) {
	if _, ok := index["name"]; !ok {
		return "", errors.New("missing name column")
	}
	if _, ok := index["price"]; ok {
		return KindProducts, nil
	}
	if _, ok := index["balance"]; ok {
		return KindCustomers, nil
	}
	return "", errors.New("expected a price or balance column")
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
