package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hms/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBillRepo struct {
	empty bool
	bills []*billing.Bill
}

func (f *fakeBillRepo) IsEmpty(ctx context.Context) (bool, error) {
	return f.empty, nil
}

func (f *fakeBillRepo) Create(ctx context.Context, bill *billing.Bill) error {
	f.bills = append(f.bills, bill)
	return nil
}

const sampleCSV = `patient_id,appointment_id,amount,status,created_at
101,5001,250.00,PAID,15/02/24 9:30
102,5002,80.50,OPEN,15/02/2024 14:05
103,5003,40.00,VOID,01/03/24 08:00
`

func newTestSeeder(repo *fakeBillRepo) *BillSeeder {
	return NewBillSeeder(repo, zap.NewNop())
}

func TestBillSeeder_ImportsRows(t *testing.T) {
	repo := &fakeBillRepo{empty: true}
	seeder := newTestSeeder(repo)

	count, err := seeder.seed(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, repo.bills, 3)

	first := repo.bills[0]
	assert.Equal(t, int64(101), first.PatientID)
	assert.Equal(t, int64(5001), first.AppointmentID)
	assert.Equal(t, billing.BillStatusPaid, first.Status)
	assert.True(t, first.AmountTotal.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, first.TaxAmount.IsZero())
	assert.Equal(t, time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC), first.CreatedAt)
	require.Len(t, first.LineItems, 1)
	assert.NoError(t, first.Validate())

	// Four-digit year variant
	assert.Equal(t, time.Date(2024, 2, 15, 14, 5, 0, 0, time.UTC), repo.bills[1].CreatedAt)
}

func TestBillSeeder_SkipsWhenPopulated(t *testing.T) {
	repo := &fakeBillRepo{empty: false}
	seeder := newTestSeeder(repo)

	err := seeder.SeedFromFile(context.Background(), "does-not-matter.csv")
	require.NoError(t, err)
	assert.Empty(t, repo.bills)
}

func TestBillSeeder_MissingFileIsNotAnError(t *testing.T) {
	repo := &fakeBillRepo{empty: true}
	seeder := newTestSeeder(repo)

	err := seeder.SeedFromFile(context.Background(), "no/such/file.csv")
	require.NoError(t, err)
	assert.Empty(t, repo.bills)
}

func TestBillSeeder_RejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing column", "patient_id,amount\n1,10.00\n"},
		{"bad amount", "patient_id,appointment_id,amount,status,created_at\n1,2,abc,OPEN,15/02/24 9:30\n"},
		{"bad status", "patient_id,appointment_id,amount,status,created_at\n1,2,10.00,SETTLED,15/02/24 9:30\n"},
		{"bad date", "patient_id,appointment_id,amount,status,created_at\n1,2,10.00,OPEN,2024-02-15\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBillRepo{empty: true}
			seeder := newTestSeeder(repo)

			_, err := seeder.seed(context.Background(), strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestParseSeedTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"15/02/24 9:30", time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC)},
		{"15/02/24 09:30", time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC)},
		{"15/02/2024 23:59", time.Date(2024, 2, 15, 23, 59, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSeedTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := parseSeedTime("02-15-2024 09:30")
	assert.Error(t, err)
}
