package legacyimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recyclerie/caisse-backend/internal/money"
	"github.com/recyclerie/caisse-backend/internal/modules/category"
	"github.com/recyclerie/caisse-backend/internal/modules/sale"
)

// Expected legacy export columns, semicolon separated:
//
//	date;category;quantity;weight;unit_price;payment;donation
//
// Dates are day-first, amounts use comma decimals. Every row becomes one
// single-line sale attached to the target session.
const expectedColumns = 7

// Importer replays a legacy CSV export through the sale recorder.
type Importer struct {
	recorder   sale.Recorder
	categories category.Repository
	log        *zap.Logger
}

func NewImporter(recorder sale.Recorder, categories category.Repository, log *zap.Logger) *Importer {
	return &Importer{recorder: recorder, categories: categories, log: log}
}

// Import reads the CSV stream and records each valid row. The report lists
// skipped rows with their reasons; only a broken stream or an unusable
// category list fails the run as a whole.
func (im *Importer) Import(ctx context.Context, r io.Reader, sessionID string) (*Report, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	known, err := im.knownCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // validated per row for a better message

	report := &Report{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if line == 1 && looksLikeHeader(record) {
			continue
		}

		s, rowErr := im.parseRow(record, sessionID, known)
		if rowErr != "" {
			report.skip(line, rowErr)
			continue
		}
		if err := im.recorder.RecordSale(ctx, s); err != nil {
			im.log.Warn("legacy row import failed", zap.Int("line", line), zap.Error(err))
			report.skip(line, err.Error())
			continue
		}
		report.Imported++
	}
	return report, nil
}

func (im *Importer) parseRow(record []string, sessionID string, known map[string]bool) (*sale.Sale, string) {
	if len(record) != expectedColumns {
		return nil, fmt.Sprintf("expected %d columns, got %d", expectedColumns, len(record))
	}

	recordedAt, err := time.Parse("02/01/2006", strings.TrimSpace(record[0]))
	if err != nil {
		return nil, fmt.Sprintf("invalid date %q", record[0])
	}

	code := strings.ToUpper(strings.TrimSpace(record[1]))
	if !known[code] {
		return nil, fmt.Sprintf("unknown category %q", record[1])
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil || quantity <= 0 {
		return nil, fmt.Sprintf("invalid quantity %q", record[2])
	}
	weight, err := money.ParseAmount(record[3])
	if err != nil {
		return nil, fmt.Sprintf("invalid weight %q", record[3])
	}
	unitPrice, err := money.ParseAmount(record[4])
	if err != nil {
		return nil, fmt.Sprintf("invalid unit price %q", record[4])
	}

	method := sale.PaymentMethod(strings.ToUpper(strings.TrimSpace(record[5])))
	switch method {
	case sale.PaymentCash, sale.PaymentCard, sale.PaymentCheque, sale.PaymentFree:
	case "":
		method = sale.PaymentCash
	default:
		return nil, fmt.Sprintf("invalid payment method %q", record[5])
	}

	donation := 0.0
	if strings.TrimSpace(record[6]) != "" {
		donation, err = money.ParseAmount(record[6])
		if err != nil {
			return nil, fmt.Sprintf("invalid donation %q", record[6])
		}
	}

	total := float64(quantity) * unitPrice
	return &sale.Sale{
		ID:        uuid.New(),
		SessionID: sessionID,
		Items: []sale.Line{{
			Category:  code,
			Quantity:  quantity,
			Weight:    weight,
			UnitPrice: unitPrice,
			Total:     total,
		}},
		TotalAmount:    total,
		DonationAmount: donation,
		PaymentMethod:  method,
		RecordedAt:     recordedAt,
	}, ""
}

func (im *Importer) knownCategories(ctx context.Context) (map[string]bool, error) {
	categories, err := im.categories.List(ctx, false)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Code] = true
	}
	return known, nil
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := time.Parse("02/01/2006", strings.TrimSpace(record[0]))
	return err != nil
}

func (r *Report) skip(line int, msg string) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Line: line, Message: msg})
}
