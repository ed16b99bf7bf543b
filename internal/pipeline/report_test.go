package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"smsledger/internal/config"
	"smsledger/internal/source"
)

func testMessages() []source.RawMessage {
	return []source.RawMessage{
		{ID: "1", Timestamp: date(2025, 9, 1), Body: "Rs.10000 credited to your account from Acme Corp"},
		{ID: "2", Timestamp: date(2025, 9, 10), Body: "Rs.6000 debited for rent payment"},
		{ID: "3", Timestamp: date(2025, 10, 1), Body: "Rs.5000 credited to your account from Acme Corp"},
		{ID: "4", Timestamp: date(2025, 10, 2), Body: "You have Sent Rs.700 to ZOMATO"},
		{ID: "5", Timestamp: date(2025, 10, 8), Body: "Rs.300 debited via upi"},
		{ID: "6", Timestamp: date(2025, 10, 9), Body: "Your OTP is 4821"}, // filtered out
	}
}

func TestPipelineRun(t *testing.T) {
	p := New(config.DefaultConfig())
	result, err := p.Run(testMessages(), date(2025, 10, 1), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Transactions) != 5 {
		t.Errorf("got %d transactions, want 5 (OTP message filtered)", len(result.Transactions))
	}
	if len(result.Months) != 2 {
		t.Errorf("got %d months, want 2", len(result.Months))
	}

	// Prior month ratio 0.6, first week income 5000, budget 3000.
	if result.Forecast.AvgSpendingRatio != 0.6 {
		t.Errorf("avg ratio = %v, want 0.6", result.Forecast.AvgSpendingRatio)
	}
	if result.Forecast.EstimatedBudget != 3000 {
		t.Errorf("estimated budget = %v, want 3000", result.Forecast.EstimatedBudget)
	}

	if len(result.Weeks) != 2 {
		t.Fatalf("got %d weeks, want 2", len(result.Weeks))
	}
	if len(result.Alerts) != len(result.Weeks) {
		t.Errorf("got %d alerts for %d weeks, want one per week", len(result.Alerts), len(result.Weeks))
	}
}

func TestPipelineRunOrderPreserved(t *testing.T) {
	p := New(config.DefaultConfig())
	result, err := p.Run(testMessages(), date(2025, 10, 1), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var prev time.Time
	for i, tx := range result.Transactions {
		if i > 0 && tx.Date.Before(prev) {
			t.Fatalf("transaction %d out of input order", i)
		}
		prev = tx.Date
	}
}

func TestPipelineRunErrors(t *testing.T) {
	p := New(config.DefaultConfig())

	if _, err := p.Run(nil, date(2025, 10, 1), nil); !errors.Is(err, ErrNoMessages) {
		t.Errorf("empty input: got %v, want ErrNoMessages", err)
	}

	if _, err := p.Run(testMessages(), time.Time{}, nil); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("zero target: got %v, want ErrInvalidMonth", err)
	}
}

func TestPipelineRunNoQualifyingMessages(t *testing.T) {
	p := New(config.DefaultConfig())
	msgs := []source.RawMessage{
		{ID: "1", Timestamp: date(2025, 10, 1), Body: "Your OTP is 4821"},
	}

	result, err := p.Run(msgs, date(2025, 10, 1), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Transactions) != 0 {
		t.Errorf("got %d transactions, want 0", len(result.Transactions))
	}
	if result.Forecast.EstimatedBudget != 0 {
		t.Errorf("estimated budget = %v, want 0", result.Forecast.EstimatedBudget)
	}
}

func TestEncodeReport(t *testing.T) {
	p := New(config.DefaultConfig())
	result, err := p.Run(testMessages(), date(2025, 10, 1), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := EncodeReport(BuildReport(result))
	if err != nil {
		t.Fatalf("EncodeReport: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{"monthly_summary", "weekly_summary", "weekly_alerts"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("report missing key %q", key)
		}
	}

	var monthly []map[string]any
	if err := json.Unmarshal(doc["monthly_summary"], &monthly); err != nil {
		t.Fatalf("monthly_summary: %v", err)
	}
	if len(monthly) == 0 {
		t.Fatal("monthly_summary is empty")
	}
	if _, ok := monthly[0]["Spending Ratio (%)"]; !ok {
		t.Errorf("monthly row missing ratio column: %v", monthly[0])
	}
	// Ratio is reported scaled by 100.
	if got := monthly[0]["Spending Ratio (%)"].(float64); got != 60 {
		t.Errorf("ratio = %v, want 60", got)
	}

	// Encoding is deterministic.
	again, err := EncodeReport(BuildReport(result))
	if err != nil {
		t.Fatalf("EncodeReport: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("encoding the same report twice differs")
	}
}

func TestBuildReportEmptyResult(t *testing.T) {
	rep := BuildReport(&Result{TargetMonth: date(2025, 10, 1)})
	data, err := EncodeReport(rep)
	if err != nil {
		t.Fatalf("EncodeReport: %v", err)
	}
	want := "{\n    \"monthly_summary\": [],\n    \"weekly_summary\": [],\n    \"weekly_alerts\": []\n}"
	if string(data) != want {
		t.Errorf("empty report = %s, want %s", data, want)
	}
}

func TestTransactionsProgress(t *testing.T) {
	p := New(config.DefaultConfig())

	var last int
	_, err := p.Transactions(testMessages(), func(current, total int) {
		if current > last {
			last = current
		}
		if total != 5 {
			t.Errorf("progress total = %d, want 5", total)
		}
	})
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if last != 5 {
		t.Errorf("final progress = %d, want 5", last)
	}
}
