package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func sampleApps() []Application {
	return []Application{
		{
			ID:           1,
			Company:      "Amazon",
			Role:         "Backend Intern",
			Status:       StatusApplied,
			Priority:     PriorityHigh,
			AppliedDate:  strPtr("2024-01-15"),
			FollowUpDate: strPtr("2024-01-30"),
			Salary:       strPtr("5000"),
			JobURL:       strPtr("https://amazon.jobs/1"),
			Notes:        strPtr(`Referral from "Ana", team lead`),
		},
		{
			ID:          2,
			Company:     "Acme, Inc",
			Role:        "QA",
			Status:      StatusRejected,
			AppliedDate: strPtr("2024-02-01"),
			Salary:      strPtr(""),
		},
	}
}

func TestExportCSV(t *testing.T) {
	got := string(ExportCSV(sampleApps()))

	want := strings.Join([]string{
		"company,role,status,priority,appliedDate,followUpDate,salary,jobUrl,notes",
		`Amazon,Backend Intern,APPLIED,HIGH,2024-01-15,2024-01-30,5000,https://amazon.jobs/1,"Referral from ""Ana"", team lead"`,
		`"Acme, Inc",QA,REJECTED,MEDIUM,2024-02-01,,,,`,
	}, "\n")

	if got != want {
		t.Errorf("ExportCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestExportCSV_Empty(t *testing.T) {
	got := string(ExportCSV(nil))
	if got != strings.Join(Columns(), ",") {
		t.Errorf("ExportCSV(nil) = %q, want header only", got)
	}
}

func TestExportJSON(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 4, 5, 123000000, time.UTC)

	data, err := ExportJSON(sampleApps(), now)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	if !strings.Contains(string(data), "\n  \"version\": 1,") {
		t.Errorf("document is not indented with two spaces:\n%s", data)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc["exportedAt"] != "2024-03-10T15:04:05.123Z" {
		t.Errorf("exportedAt = %v", doc["exportedAt"])
	}

	apps := doc["applications"].([]any)
	if len(apps) != 2 {
		t.Fatalf("got %d applications, want 2", len(apps))
	}

	second := apps[1].(map[string]any)
	for _, key := range Columns() {
		if _, ok := second[key]; !ok {
			t.Errorf("key %q missing from entry", key)
		}
	}
	if _, ok := second["id"]; ok {
		t.Error("entry should not carry id")
	}
	if second["priority"] != "MEDIUM" {
		t.Errorf("priority = %v, want MEDIUM", second["priority"])
	}
	for _, key := range []string{"followUpDate", "salary", "jobUrl", "notes"} {
		if second[key] != nil {
			t.Errorf("%s = %v, want null", key, second[key])
		}
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

	if got := ExportFileName(FormatCSV, now); got != "job-tracker-applications-2024-03-10.csv" {
		t.Errorf("csv name = %q", got)
	}
	if got := ExportFileName(FormatJSON, now); got != "job-tracker-backup-2024-03-10.json" {
		t.Errorf("json name = %q", got)
	}
}
