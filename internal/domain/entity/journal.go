package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType tipo de cuenta del plan contable.
type AccountType string

// Tipos de cuenta.
const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountRevenue   AccountType = "revenue"
	AccountExpense   AccountType = "expense"
)

// Account cuenta del plan contable (solo lectura para el motor).
type Account struct {
	ID   string
	Code string
	Name string
	Type AccountType
}

// Journal cabecera de un asiento contable. Inmutable una vez contabilizado.
type Journal struct {
	ID        string
	Number    int64
	Date      time.Time
	Memo      string
	PostedBy  string
	CreatedAt time.Time
	Lines     []JournalLine
}

// JournalLine línea débito o crédito de un asiento.
type JournalLine struct {
	ID          string
	JournalID   string
	AccountID   string
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	RefType     string
	RefID       string
}

// Totals devuelve la suma de débitos y créditos del asiento.
func (j *Journal) Totals() (debit, credit decimal.Decimal) {
	for _, l := range j.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}
