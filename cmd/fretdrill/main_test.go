package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/fretdrill/internal/config"
	"github.com/verte-zerg/fretdrill/internal/drill"
	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/store"
)

func validConfig() model.Config {
	return model.Config{
		Drill:         model.DrillNameNote,
		Tuning:        fretboard.StandardTuning,
		MinString:     0,
		MaxString:     5,
		MinFret:       0,
		MaxFret:       13,
		FastThreshold: 2 * time.Second,
		WeakFactor:    2,
		FlashFrames:   5,
		AdvanceDelay:  600 * time.Millisecond,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := map[string]func(*model.Config){
		"--drill":          func(c *model.Config) { c.Drill = "scales" },
		"--fast-threshold": func(c *model.Config) { c.FastThreshold = 0 },
		"--weak-factor":    func(c *model.Config) { c.WeakFactor = -1 },
		"--flash-frames":   func(c *model.Config) { c.FlashFrames = -1 },
		"--advance-delay":  func(c *model.Config) { c.AdvanceDelay = -time.Second },
		"invalid bounds":   func(c *model.Config) { c.MinFret, c.MaxFret = 9, 3 },
		"invalid tuning":   func(c *model.Config) { c.Tuning = c.Tuning[:4] },
	}
	for want, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		err := validateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error mentioning %q, got %v", want, err)
		}
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if cfg.Drill.Drill != nil {
		t.Fatalf("template values must be commented out")
	}
	uncommented := strings.ReplaceAll(defaultConfigTemplate(), "# drill =", "drill =")
	uncommented = strings.ReplaceAll(uncommented, "# fast-threshold =", "fast-threshold =")
	if _, err := toml.Decode(uncommented, &cfg); err != nil {
		t.Fatalf("decode uncommented template: %v", err)
	}
	if cfg.Drill.Drill == nil || *cfg.Drill.Drill != "name" {
		t.Fatalf("unexpected drill: %v", cfg.Drill.Drill)
	}
	if cfg.Drill.FastThreshold.Std() != 2*time.Second {
		t.Fatalf("unexpected fast threshold: %v", cfg.Drill.FastThreshold.Std())
	}
}

func TestPrintSummariesSkipsUnstarted(t *testing.T) {
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	played, err := drill.New(validConfig(), drill.WithRecorder(st))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	played.Start()
	played.Quit()
	idle, err := drill.New(validConfig(), drill.WithRecorder(st))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	var buf bytes.Buffer
	if err := printSummaries(context.Background(), &buf, st, []drill.Session{played, idle}); err != nil {
		t.Fatalf("print summaries: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "No answers recorded.") != 1 {
		t.Fatalf("expected one summary, got:\n%s", out)
	}
	if !strings.Contains(out, "No note stats found.") {
		t.Fatalf("expected empty note table notice, got:\n%s", out)
	}
	if !strings.Contains(out, "Journaled attempts: 0") {
		t.Fatalf("expected journal count, got:\n%s", out)
	}
}

func TestPrintSummariesReportsUnjournaledSession(t *testing.T) {
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	s, err := drill.New(validConfig())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Start()
	s.Quit()

	var buf bytes.Buffer
	if err := printSummaries(context.Background(), &buf, st, []drill.Session{s}); err != nil {
		t.Fatalf("print summaries: %v", err)
	}
	if !strings.Contains(buf.String(), "Attempt journal unavailable.") {
		t.Fatalf("expected missing journal notice, got:\n%s", buf.String())
	}
}
