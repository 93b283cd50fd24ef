package ingestion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseLine_ValidRow(t *testing.T) {
	rec, err := parseLine("441215598896,448000096481,16/08/2016,14:21:33,43,0.044,C5DA9724701EEBBA95CA2CC5617BA93E4,GBP")
	require.NoError(t, err)
	require.NotNil(t, rec)

	require.Equal(t, "C5DA9724701EEBBA95CA2CC5617BA93E4", rec.Reference)
	require.Equal(t, "441215598896", rec.CallerID)
	require.Equal(t, "448000096481", rec.Recipient)
	require.Equal(t, time.Date(2016, 8, 16, 0, 0, 0, 0, time.UTC), rec.CallDate)
	require.Equal(t, "14:21:33", rec.EndTime.Format("15:04:05"))
	require.Equal(t, 43, rec.Duration)
	require.True(t, rec.Cost.Equal(decimal.RequireFromString("0.044")))
	require.Equal(t, "GBP", rec.Currency)
}

func TestParseLine_EmptyCallerIDIsAccepted(t *testing.T) {
	rec, err := parseLine(",448000096481,16/08/2016,14:21:33,43,0,ref-1,GBP")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Empty(t, rec.CallerID)
}

func TestParseLine_RejectedRows(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"too few fields", "441215598896,448000096481,16/08/2016,14:21:33,43,0.044,ref-1"},
		{"empty recipient", "441215598896,,16/08/2016,14:21:33,43,0.044,ref-1,GBP"},
		{"empty call date", "441215598896,448000096481,,14:21:33,43,0.044,ref-1,GBP"},
		{"empty end time", "441215598896,448000096481,16/08/2016,,43,0.044,ref-1,GBP"},
		{"empty duration", "441215598896,448000096481,16/08/2016,14:21:33,,0.044,ref-1,GBP"},
		{"empty cost", "441215598896,448000096481,16/08/2016,14:21:33,43,,ref-1,GBP"},
		{"empty reference", "441215598896,448000096481,16/08/2016,14:21:33,43,0.044,,GBP"},
		{"empty currency", "441215598896,448000096481,16/08/2016,14:21:33,43,0.044,ref-1,"},
		{"empty trailing extra field", "441215598896,448000096481,16/08/2016,14:21:33,43,0.044,ref-1,GBP,"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := parseLine(tc.line)
			require.NoError(t, err)
			require.Nil(t, rec)
		})
	}
}

func TestParseLine_UnparsableValuesAreFatal(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"bad date", "441215598896,448000096481,2016-08-16,14:21:33,43,0.044,ref-1,GBP"},
		{"bad time", "441215598896,448000096481,16/08/2016,25:99:99,43,0.044,ref-1,GBP"},
		{"bad duration", "441215598896,448000096481,16/08/2016,14:21:33,forty,0.044,ref-1,GBP"},
		{"bad cost", "441215598896,448000096481,16/08/2016,14:21:33,43,4x4,ref-1,GBP"},
		{"negative duration", "441215598896,448000096481,16/08/2016,14:21:33,-5,0.044,ref-1,GBP"},
		{"negative cost", "441215598896,448000096481,16/08/2016,14:21:33,43,-0.5,ref-1,GBP"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := parseLine(tc.line)
			require.ErrorIs(t, err, ErrBadRowValue)
			require.Nil(t, rec)
		})
	}
}
