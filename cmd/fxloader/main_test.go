package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz/lzma"

	"github.com/rickgao/fx-ticks/internal/codec"
	"github.com/rickgao/fx-ticks/internal/config"
	"github.com/rickgao/fx-ticks/internal/model"
)

func TestParseFlags_Overrides(t *testing.T) {
	opts, fs, err := parseFlags([]string{
		"-pair", "GBPUSD",
		"-start", "2018-10-01",
		"-pipeline", "sqlite",
		"-db", "/tmp/ticks.db",
		"-table", "gbp_ticks",
		"-processes", "3",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	cfg := &config.LoaderConfig{}
	cfg.Job.End = "2018-10-05"
	cfg.Sink.Tabular.Separator = ";"
	opts.apply(fs, cfg)

	if cfg.Job.Pair != "GBPUSD" {
		t.Errorf("Pair = %q, want GBPUSD", cfg.Job.Pair)
	}
	if cfg.Job.End != "2018-10-05" {
		t.Errorf("End = %q, unset flag must not override", cfg.Job.End)
	}
	if cfg.Sink.Kind != "sqlite" {
		t.Errorf("Kind = %q, want sqlite", cfg.Sink.Kind)
	}
	if cfg.Sink.SQLite.Path != "/tmp/ticks.db" {
		t.Errorf("SQLite.Path = %q", cfg.Sink.SQLite.Path)
	}
	if cfg.Sink.SQLite.Table != "gbp_ticks" || cfg.Sink.Postgres.Table != "gbp_ticks" {
		t.Errorf("tables = %q/%q, want gbp_ticks", cfg.Sink.SQLite.Table, cfg.Sink.Postgres.Table)
	}
	if cfg.Sink.Tabular.Separator != ";" {
		t.Errorf("Separator = %q, unset flag must not override", cfg.Sink.Tabular.Separator)
	}
	if cfg.Runner.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Runner.Workers)
	}
}

func TestParseFlags_Unknown(t *testing.T) {
	if _, _, err := parseFlags([]string{"-nope"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), []string{"-pair", "EUR"}, &stderr)
	if code != exitSetup {
		t.Errorf("run() = %d, want %d", code, exitSetup)
	}
	if !strings.Contains(stderr.String(), "validate config") {
		t.Errorf("stderr = %q, want validation message", stderr.String())
	}
}

func TestRun_TabularEndToEnd(t *testing.T) {
	records := []model.TickRecord{
		{OffsetMs: 250, AskRaw: 116012, BidRaw: 116009, AskVolumeRaw: 1.25, BidVolumeRaw: 0.75},
	}
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(codec.EncodeRecords(records)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	payload := buf.Bytes()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second hour is missing upstream.
		if strings.HasSuffix(r.URL.Path, "/01h_ticks.bi5") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	outDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "fxloader.yaml")
	yaml := fmt.Sprintf(`
job:
  pair: EURUSD
  start: "2018-10-01"
  end: "2018-10-01 03:00:00"
feed:
  base_url: %s
sink:
  kind: tabular
  tabular:
    output_dir: %s
runner:
  workers: 2
  poll_interval: 10ms
  result_timeout: 1s
logging:
  level: error
`, server.URL, outDir)
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run(context.Background(), []string{"-config", cfgPath}, io.Discard); code != exitOK {
		t.Fatalf("run() = %d, want %d", code, exitOK)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"EURUSD20181001T000000.tsv", "EURUSD20181001T020000.tsv"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", names, want)
	}

	data, err := os.ReadFile(filepath.Join(outDir, want[0]))
	if err != nil {
		t.Fatal(err)
	}
	wantData := "timestamp\task\tbid\task_volume\tbid_volume\n" +
		"2018-10-01 00:00:00.250\t1.16012\t1.16009\t1250000\t750000\n"
	if string(data) != wantData {
		t.Errorf("file content = %q, want %q", data, wantData)
	}
}
