package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costing-ledger/internal/domain/entity"
)

// JournalLineRequest línea de POST /api/journals.
type JournalLineRequest struct {
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	RefType     string          `json:"ref_type,omitempty"`
	RefID       string          `json:"ref_id,omitempty"`
}

// PostJournalRequest body para POST /api/journals.
type PostJournalRequest struct {
	Memo  string               `json:"memo"`
	Date  *time.Time           `json:"date,omitempty"`
	Lines []JournalLineRequest `json:"lines"`
}

// JournalLineDTO línea contabilizada.
type JournalLineDTO struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	RefType     string          `json:"ref_type,omitempty"`
	RefID       string          `json:"ref_id,omitempty"`
}

// JournalResponse asiento contabilizado.
type JournalResponse struct {
	ID          string           `json:"id"`
	Number      int64            `json:"number"`
	Date        time.Time        `json:"date"`
	Memo        string           `json:"memo"`
	PostedBy    string           `json:"posted_by"`
	CreatedAt   time.Time        `json:"created_at"`
	TotalDebit  decimal.Decimal  `json:"total_debit"`
	TotalCredit decimal.Decimal  `json:"total_credit"`
	Lines       []JournalLineDTO `json:"lines"`
}

// FromJournal mapea un asiento; nil devuelve nil.
func FromJournal(j *entity.Journal) *JournalResponse {
	if j == nil {
		return nil
	}
	debit, credit := j.Totals()
	out := &JournalResponse{
		ID:          j.ID,
		Number:      j.Number,
		Date:        j.Date,
		Memo:        j.Memo,
		PostedBy:    j.PostedBy,
		CreatedAt:   j.CreatedAt,
		TotalDebit:  debit,
		TotalCredit: credit,
		Lines:       make([]JournalLineDTO, 0, len(j.Lines)),
	}
	for _, l := range j.Lines {
		out.Lines = append(out.Lines, JournalLineDTO{
			ID:          l.ID,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			RefType:     l.RefType,
			RefID:       l.RefID,
		})
	}
	return out
}
