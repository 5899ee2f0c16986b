package models

import (
	"github.com/hms/billing/internal/domain/billing"
	"github.com/hms/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model for the Bill aggregate root
type BillModel struct {
	AggregateModel
	PatientID      int64               `gorm:"not null;index"`
	AppointmentID  int64               `gorm:"not null;index"`
	AmountSubtotal decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TaxPercent     decimal.Decimal     `gorm:"type:decimal(5,2);not null"`
	TaxAmount      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	AmountTotal    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status         billing.BillStatus  `gorm:"type:varchar(10);not null;default:'OPEN';index"`
	Notes          string              `gorm:"type:text"`
	LineItems      []BillLineItemModel `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// BillLineItemModel is the persistence model for a bill line item.
// Line items are owned by the bill and deleted with it.
type BillLineItemModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	BillID      int64           `gorm:"not null;index"`
	Type        string          `gorm:"type:varchar(50);not null"`
	Description string          `gorm:"type:varchar(500)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (BillLineItemModel) TableName() string {
	return "bill_line_items"
}

// ToDomain converts the persistence model to a domain Bill
func (m *BillModel) ToDomain() *billing.Bill {
	items := make([]billing.BillLineItem, len(m.LineItems))
	for i, item := range m.LineItems {
		items[i] = billing.BillLineItem{
			LineID:      item.ID,
			BillID:      item.BillID,
			Type:        item.Type,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}

	return &billing.Bill{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		PatientID:      m.PatientID,
		AppointmentID:  m.AppointmentID,
		AmountSubtotal: m.AmountSubtotal,
		TaxPercent:     m.TaxPercent,
		TaxAmount:      m.TaxAmount,
		AmountTotal:    m.AmountTotal,
		Status:         m.Status,
		Notes:          m.Notes,
		LineItems:      items,
	}
}

// FromDomain populates the persistence model from a domain Bill
func (m *BillModel) FromDomain(bill *billing.Bill) {
	m.ID = bill.ID
	m.CreatedAt = bill.CreatedAt
	m.UpdatedAt = bill.UpdatedAt
	m.Version = bill.Version
	m.PatientID = bill.PatientID
	m.AppointmentID = bill.AppointmentID
	m.AmountSubtotal = bill.AmountSubtotal
	m.TaxPercent = bill.TaxPercent
	m.TaxAmount = bill.TaxAmount
	m.AmountTotal = bill.AmountTotal
	m.Status = bill.Status
	m.Notes = bill.Notes

	m.LineItems = make([]BillLineItemModel, len(bill.LineItems))
	for i, item := range bill.LineItems {
		m.LineItems[i] = BillLineItemModel{
			ID:          item.LineID,
			BillID:      item.BillID,
			Type:        item.Type,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}
}

// BillModelFromDomain creates a new persistence model from a domain Bill
func BillModelFromDomain(bill *billing.Bill) *BillModel {
	m := &BillModel{}
	m.FromDomain(bill)
	return m
}
