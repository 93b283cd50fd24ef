package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
	"github.com/shopspring/decimal"
)

// expectedFieldCount is the fixed positional layout of a CDR row:
// caller_id, recipient, call_date, end_time, duration, cost, reference, currency
const expectedFieldCount = 8

const (
	colCallerID = iota
	colRecipient
	colCallDate
	colEndTime
	colDuration
	colCost
	colReference
	colCurrency
)

// ErrBadRowValue marks a row that passed the shape check but carries a field
// that cannot be parsed. Unlike a rejected row this is fatal to the job:
// the source file is corrupt, not merely incomplete.
var ErrBadRowValue = errors.New("row field cannot be parsed")

// parseLine converts one CSV data row into a CallDetailRecord.
//
// Returns (nil, nil) for a rejected row: fewer than 8 comma-separated fields,
// or any field other than caller_id empty. Rejected rows are skipped without
// failing ingestion. A row of the right shape whose values don't parse
// returns an error wrapping ErrBadRowValue.
func parseLine(line string) (*v1.CallDetailRecord, error) {
	fields := strings.Split(line, ",")
	if len(fields) < expectedFieldCount {
		return nil, nil
	}

	// caller_id is the one field permitted to be empty (withheld numbers).
	for _, f := range fields[1:] {
		if f == "" {
			return nil, nil
		}
	}

	callDate, err := time.Parse(v1.CSVDateLayout, fields[colCallDate])
	if err != nil {
		return nil, fmt.Errorf("%w: call_date %q", ErrBadRowValue, fields[colCallDate])
	}

	endTime, err := time.Parse(v1.CSVTimeLayout, fields[colEndTime])
	if err != nil {
		return nil, fmt.Errorf("%w: end_time %q", ErrBadRowValue, fields[colEndTime])
	}

	duration, err := strconv.Atoi(fields[colDuration])
	if err != nil {
		return nil, fmt.Errorf("%w: duration %q", ErrBadRowValue, fields[colDuration])
	}

	// Decimal literal with "." as separator, independent of host locale.
	cost, err := decimal.NewFromString(fields[colCost])
	if err != nil {
		return nil, fmt.Errorf("%w: cost %q", ErrBadRowValue, fields[colCost])
	}

	rec := &v1.CallDetailRecord{
		Reference: fields[colReference],
		CallerID:  fields[colCallerID],
		Recipient: fields[colRecipient],
		CallDate:  v1.Date(callDate),
		EndTime:   endTime,
		Duration:  duration,
		Cost:      cost,
		Currency:  fields[colCurrency],
	}

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRowValue, err)
	}

	return rec, nil
}
