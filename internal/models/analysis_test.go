package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAnalysisResult_LatestDateLabel(t *testing.T) {
	date := "2023-10-10"

	if got := (AnalysisResult{LatestDataDate: &date}).LatestDateLabel(); got != date {
		t.Errorf("expected %s, got %s", date, got)
	}
	if got := (AnalysisResult{}).LatestDateLabel(); got != UnknownDate {
		t.Errorf("expected %s, got %s", UnknownDate, got)
	}
}

func TestAnalysisResult_UnknownDateSerializesAsNull(t *testing.T) {
	data, err := json.Marshal(AnalysisResult{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"latest_data_date":null`) {
		t.Errorf("expected null latest_data_date, got %s", data)
	}
}
