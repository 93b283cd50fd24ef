package v1

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Wire formats. CSV files carry UK-style dates; the JSON API speaks ISO.
const (
	CSVDateLayout  = "02/01/2006"
	CSVTimeLayout  = "15:04:05"
	JSONDateLayout = "2006-01-02"
)

// CallDetailRecord is the atomic unit of the system: one completed call,
// parsed from a CSV row during ingestion and immutable afterwards.
type CallDetailRecord struct {
	// Reference is the globally unique identifier of the record (primary key).
	Reference string

	// CallerID is the phone number that placed the call. This is the only
	// field the source files are allowed to leave empty (withheld numbers).
	CallerID string

	// Recipient is the phone number that received the call.
	Recipient string

	// CallDate is the calendar date of the call. The time-of-day portion is
	// always midnight UTC; all date comparisons are by calendar date only.
	CallDate time.Time

	// EndTime is the time of day the call ended, independent of CallDate.
	EndTime time.Time

	// Duration is the call length in whole seconds.
	Duration int

	// Cost is the billed amount, precise to 3 fractional digits.
	Cost decimal.Decimal

	// Currency is the 3-letter currency code (e.g. "GBP").
	Currency string

	// IngestSeq is a monotonic sequence number assigned by the store.
	// It preserves insertion order across reads and is not exposed over the API.
	IngestSeq int64
}

// Validate ensures all mandatory fields are present. CallerID is exempt:
// source files legitimately omit it for withheld numbers.
func (r *CallDetailRecord) Validate() error {
	if r.Reference == "" {
		return fmt.Errorf("reference is required")
	}

	if r.Recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	if r.CallDate.IsZero() {
		return fmt.Errorf("call_date is required")
	}

	if r.Duration < 0 {
		return fmt.Errorf("duration must be >= 0")
	}

	if r.Cost.IsNegative() {
		return fmt.Errorf("cost must be >= 0")
	}

	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}

	return nil
}

// Date normalizes t to midnight UTC so records and query bounds compare by
// calendar date regardless of how the driver materialized the value.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MarshalJSON renders CallDate as a bare date and EndTime as a bare clock
// time. The zero-year timestamps Go would otherwise emit for these fields are
// meaningless to API consumers.
func (r *CallDetailRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Reference string          `json:"reference"`
		CallerID  string          `json:"caller_id"`
		Recipient string          `json:"recipient"`
		CallDate  string          `json:"call_date"`
		EndTime   string          `json:"end_time"`
		Duration  int             `json:"duration"`
		Cost      decimal.Decimal `json:"cost"`
		Currency  string          `json:"currency"`
	}{
		Reference: r.Reference,
		CallerID:  r.CallerID,
		Recipient: r.Recipient,
		CallDate:  r.CallDate.Format(JSONDateLayout),
		EndTime:   r.EndTime.Format(CSVTimeLayout),
		Duration:  r.Duration,
		Cost:      r.Cost,
		Currency:  r.Currency,
	})
}

// Summary is a transient aggregate over a date range. It is computed fresh on
// every query and never persisted.
type Summary struct {
	TotalCalls            int             `json:"total_calls"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	AverageDuration       float64         `json:"average_duration"`
	MostFrequentCaller    string          `json:"most_frequent_caller"`
	MostFrequentRecipient string          `json:"most_frequent_recipient"`
}
