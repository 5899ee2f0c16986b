package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hms/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// timeLayouts are the accepted created_at formats, day first. Hours are
// zero-padded before parsing so "9:30" and "09:30" both work.
var timeLayouts = []string{
	"02/01/06 15:04",
	"02/01/2006 15:04",
}

// BillSeeder imports historical bills from a CSV export. Rows carry only the
// final amount, so each bill gets a single line item for the full amount at
// zero tax, which keeps the stored totals consistent.
type BillSeeder struct {
	repo   Repository
	logger *zap.Logger
}

// Repository is the subset of the bill repository the seeder needs
type Repository interface {
	IsEmpty(ctx context.Context) (bool, error)
	Create(ctx context.Context, bill *billing.Bill) error
}

// NewBillSeeder creates a new BillSeeder
func NewBillSeeder(repo Repository, logger *zap.Logger) *BillSeeder {
	return &BillSeeder{repo: repo, logger: logger}
}

// SeedFromFile imports bills from the CSV file at path. The import runs only
// when the bills table is empty, so restarts never duplicate data. A missing
// file is not an error; the seeder just logs and returns.
func (s *BillSeeder) SeedFromFile(ctx context.Context, path string) error {
	empty, err := s.repo.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to check bills table: %w", err)
	}
	if !empty {
		s.logger.Info("Bills table already populated, skipping seed")
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("Seed file not found, skipping seed", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	count, err := s.seed(ctx, file)
	if err != nil {
		return err
	}

	s.logger.Info("Seed import completed",
		zap.String("path", path),
		zap.Int("bills", count),
	)
	return nil
}

func (s *BillSeeder) seed(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read seed header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff") // strip BOM from exported files
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"patient_id", "appointment_id", "amount", "status", "created_at"} {
		if _, ok := columns[required]; !ok {
			return 0, fmt.Errorf("seed file missing column %q", required)
		}
	}

	count := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read seed row %d: %w", line, err)
		}
		line++

		bill, err := s.parseRow(record, columns)
		if err != nil {
			return count, fmt.Errorf("seed row %d: %w", line, err)
		}

		if err := s.repo.Create(ctx, bill); err != nil {
			return count, fmt.Errorf("failed to insert seed row %d: %w", line, err)
		}
		count++
	}

	return count, nil
}

func (s *BillSeeder) parseRow(record []string, columns map[string]int) (*billing.Bill, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[columns[name]])
	}

	patientID, err := strconv.ParseInt(field("patient_id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id: %w", err)
	}
	appointmentID, err := strconv.ParseInt(field("appointment_id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment_id: %w", err)
	}
	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	status := billing.BillStatus(strings.ToUpper(field("status")))
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", field("status"))
	}

	createdAt, err := parseSeedTime(field("created_at"))
	if err != nil {
		return nil, err
	}

	zeroTax := decimal.Zero
	bill, err := billing.NewBill(patientID, appointmentID,
		[]billing.LineItemRequest{{
			Description: "Imported bill",
			Quantity:    1,
			UnitPrice:   amount,
		}},
		&zeroTax, "", createdAt)
	if err != nil {
		return nil, err
	}
	bill.Status = status

	return bill, nil
}

// parseSeedTime parses a day-first timestamp, tolerating single-digit hours
func parseSeedTime(value string) (time.Time, error) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) == 2 && len(parts[1]) > 0 && strings.IndexByte(parts[1], ':') == 1 {
		value = parts[0] + " 0" + parts[1]
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q", value)
}
