package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/opendq/opendq/internal/errdefs"
	"github.com/opendq/opendq/pkg/report"
)

func TestLocalStoreRoundtrip(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	rep := report.New("data.csv", report.ModeCSV)
	rep.Add(report.Finding{Severity: report.SeverityMajor, Code: "bom_present", Message: "file starts with a UTF-8 byte order mark"})
	rep.Finalize(report.FinalizeOptions{ContentChecked: true})

	ctx := context.Background()
	if err := s.Save(ctx, rep); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := s.Get(ctx, rep.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var out struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("stored report is not JSON: %v", err)
	}
	if out.Source != "data.csv" {
		t.Errorf("source = %q", out.Source)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != rep.ID {
		t.Errorf("List = %v, want [%s]", ids, rep.ID)
	}
}

func TestLocalStoreGetMissing(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Get(context.Background(), "nope")
	if !errdefs.IsCode(err, errdefs.CodeStore) {
		t.Errorf("error = %v, want code %s", err, errdefs.CodeStore)
	}
}

func TestDefaultRedisConfig(t *testing.T) {
	cfg := DefaultRedisConfig("localhost:6379")
	if cfg.Address == "" || cfg.Prefix == "" {
		t.Errorf("incomplete defaults: %+v", cfg)
	}
	if cfg.TTL <= 0 {
		t.Errorf("TTL = %v, want positive", cfg.TTL)
	}
}
