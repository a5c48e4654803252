package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/wlpa/internal/config"
	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/xuri/excelize/v2"
)

func writeSchedules(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Schedule-I"); err != nil {
		t.Fatal(err)
	}
	rows := [][]any{
		{"Schedule", "Common Name", "Scintific Name"},
		{"Schedule-I", "Tiger", "Panthera tigris"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Schedule-I", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestStart_FromWorkbooks(t *testing.T) {
	dir := t.TempDir()
	schedules := filepath.Join(dir, "WLPA.xlsx")
	writeSchedules(t, schedules)

	cfg, err := config.LoadFrom(config.MapLookup(map[string]string{
		"WLPA_SCHEDULES_FILE": schedules,
		"WLPA_SPECIMENS_FILE": filepath.Join(dir, "missing.xlsx"),
	}))
	if err != nil {
		t.Fatal(err)
	}

	snap, closeFn, err := Start(context.Background(), cfg)
	defer closeFn()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	res := snap.Search(core.Query{CommonName: "tig"}, core.EmptyMatchNone)
	if len(res.Records) != 1 || res.Records[0].ScientificName != "Panthera tigris" {
		t.Errorf("records = %v", res.Records)
	}
	// Missing Schedule-II/III sheets and the missing specimen file are
	// warnings, not failures.
	if !snap.Degraded() {
		t.Error("Degraded() = false, want true")
	}
}

func TestOpenDatabase_NotConfigured(t *testing.T) {
	cfg, err := config.LoadFrom(config.MapLookup(nil))
	if err != nil {
		t.Fatal(err)
	}
	pool, err := OpenDatabase(context.Background(), cfg)
	if err != nil || pool != nil {
		t.Errorf("OpenDatabase() = %v, %v; want nil, nil", pool, err)
	}
}

func TestOpenDatabase_BadURL(t *testing.T) {
	cfg, err := config.LoadFrom(config.MapLookup(map[string]string{"DATABASE_URL": "postgres://%zz"}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := OpenDatabase(context.Background(), cfg); err == nil {
		t.Error("OpenDatabase() error = nil, want parse error")
	}
}
