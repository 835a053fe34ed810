package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/ganttr/internal/store"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func sampleData() (*store.Project, []store.User) {
	p := &store.Project{
		ID:    "p1",
		Name:  "Launch",
		Start: day(1),
		End:   day(31),
		Tasks: []store.Task{
			{ID: "t1", Title: "Design", Start: day(2), End: day(5), Progress: 100, Assignees: []string{"u1"}, Color: "#4F46E5"},
			{ID: "t2", Title: "Build", Start: day(8), End: day(20), Progress: 40, DependsOn: []string{"t1", "gone"}, Assignees: []string{"u1", "u2", "ghost"}, Color: "#10B981"},
			{ID: "t3", Title: "Ship", Start: day(22), End: day(22), DependsOn: []string{"t2"}, Color: "#F59E0B"},
		},
	}
	users := []store.User{{ID: "u1", Name: "Ada"}, {ID: "u2", Name: "Linus"}}
	return p, users
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	p, users := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(p, users, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][9] != "Color" {
		t.Fatalf("unexpected header %v", records[0])
	}

	build := records[2]
	if build[0] != "t2" || build[1] != "Launch" || build[2] != "Build" {
		t.Fatalf("unexpected row %v", build)
	}
	if build[3] != "2024-01-08" || build[4] != "2024-01-20" || build[5] != "13" {
		t.Fatalf("dates = %v", build[3:6])
	}
	if build[6] != "40" {
		t.Fatalf("progress = %q", build[6])
	}
	if build[7] != "Design" {
		t.Fatalf("dangling dependency should be skipped, got %q", build[7])
	}
	if build[8] != "Ada; Linus" {
		t.Fatalf("assignees = %q", build[8])
	}

	ship := records[3]
	if ship[5] != "1" {
		t.Fatalf("one-day task should cover 1 day, got %q", ship[5])
	}
}

func TestToCSVNilProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	p := &store.Project{
		Name:  `Project "Special"`,
		Tasks: []store.Task{{ID: "t1", Title: `title with "quotes" and, commas`, Start: day(1), End: day(2)}},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(p, nil, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != `Project "Special"` {
		t.Fatalf("project name mangled: %q", records[1][1])
	}
	if records[1][2] != `title with "quotes" and, commas` {
		t.Fatalf("title mangled: %q", records[1][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	p, users := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(p, users, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Tasks) != 3 {
		t.Fatalf("count = %d, tasks = %d, want 3", result.Count, len(result.Tasks))
	}
	if result.Project != "Launch" || result.Start != "2024-01-01" || result.End != "2024-01-31" {
		t.Fatalf("unexpected project header %+v", result)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	build := result.Tasks[1]
	if build.ID != "t2" || build.Days != 13 || build.Progress != 40 {
		t.Fatalf("unexpected task %+v", build)
	}
	if len(build.DependsOn) != 1 || build.DependsOn[0] != "Design" {
		t.Fatalf("depends_on = %v", build.DependsOn)
	}
	if len(build.Assignees) != 2 {
		t.Fatalf("assignees = %v", build.Assignees)
	}
}

func TestToJSONNilProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Tasks != nil {
		t.Fatal("tasks should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

func TestTaskDays(t *testing.T) {
	tests := []struct {
		start, end int
		want       int
	}{
		{1, 1, 1},
		{1, 2, 2},
		{1, 31, 31},
	}
	for _, tt := range tests {
		got := taskDays(store.Task{Start: day(tt.start), End: day(tt.end)})
		if got != tt.want {
			t.Errorf("taskDays(%d..%d) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}
