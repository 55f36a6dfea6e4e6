package models

import "time"

// PaymentAccount is one named bank account in settings.
type PaymentAccount struct {
	ID            string `bson:"id" json:"id"`
	Label         string `bson:"label,omitempty" json:"label,omitempty"`
	BankName      string `bson:"bankName" json:"bankName"`
	AccountName   string `bson:"accountName" json:"accountName"`
	AccountNumber string `bson:"accountNumber" json:"accountNumber"`
	Note          string `bson:"note,omitempty" json:"note,omitempty"`
	QRPath        string `bson:"qrPath,omitempty" json:"qrPath,omitempty"`
	IsPrimary     bool   `bson:"isPrimary" json:"isPrimary"`
}

// PaymentSettings is a singleton document keyed by a fixed string id. The
// top-level fields mirror the sub-account whose IsPrimary flag is set;
// exactly one account is primary.
type PaymentSettings struct {
	ID            string           `bson:"_id,omitempty" json:"id"`
	BankName      string           `bson:"bankName" json:"bankName"`
	AccountName   string           `bson:"accountName" json:"accountName"`
	AccountNumber string           `bson:"accountNumber" json:"accountNumber"`
	Note          string           `bson:"note,omitempty" json:"note,omitempty"`
	QRPath        string           `bson:"qrPath,omitempty" json:"qrPath,omitempty"`
	Accounts      []PaymentAccount `bson:"accounts" json:"accounts"`
	UpdatedAt     time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// Primary returns the current primary account, or nil when none is flagged.
func (s *PaymentSettings) Primary() *PaymentAccount {
	for i := range s.Accounts {
		if s.Accounts[i].IsPrimary {
			return &s.Accounts[i]
		}
	}
	return nil
}
