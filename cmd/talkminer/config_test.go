package main

import (
	"strings"
	"testing"

	"github.com/talkcoin/talkminer/domain/blockheader"
	"github.com/talkcoin/talkminer/domain/pow"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]string{})
	if err != nil {
		t.Fatalf("parseConfig: %s", err)
	}
	if cfg.header.Version() != 1 || cfg.header.Nonce() != 0 {
		t.Errorf("unexpected default header %s", cfg.header)
	}
	if cfg.target.Word7() != pow.DiffOneWord {
		t.Errorf("default target word 7: got %08x want %08x", cfg.target.Word7(), pow.DiffOneWord)
	}
	if cfg.MaxNonce != ^uint32(0) || cfg.ChunkSize != defaultChunkSize || cfg.AppDir != defaultAppDir {
		t.Errorf("unexpected defaults: %+v", cfg.configFlags)
	}
	if !strings.HasSuffix(cfg.nonceStorePath(), defaultNonceStoreDir) {
		t.Errorf("unexpected nonce store path %s", cfg.nonceStorePath())
	}
}

func TestParseConfigFlags(t *testing.T) {
	header := blockheader.New(2, nil, nil, 100, 0x1e0ffff0, 0)
	cfg, err := parseConfig([]string{
		"--header", header.String(),
		"--difficulty", "256",
		"--startnonce", "10",
		"--maxnonce", "20",
		"--chunksize", "5",
		"--resume",
	})
	if err != nil {
		t.Fatalf("parseConfig: %s", err)
	}
	if *cfg.header != *header {
		t.Errorf("header: got %s want %s", cfg.header, header)
	}
	if cfg.target.Word7() != 0xff {
		t.Errorf("target word 7: got %08x want 000000ff", cfg.target.Word7())
	}
	if cfg.StartNonce != 10 || cfg.MaxNonce != 20 || cfg.ChunkSize != 5 || !cfg.Resume {
		t.Errorf("unexpected flags: %+v", cfg.configFlags)
	}
}

func TestResolveConfigTargets(t *testing.T) {
	cfgFlags := defaultConfigFlags()
	cfgFlags.Bits = 0x1d00ffff
	cfgFlags.UseBits = true
	cfg, err := resolveConfig(cfgFlags)
	if err != nil {
		t.Fatalf("resolveConfig: %s", err)
	}
	expected, _ := pow.NewTargetFromCompact(0x1d00ffff)
	if *cfg.target != *expected {
		t.Errorf("--usebits target: got %s want %s", cfg.target, expected)
	}

	cfgFlags = defaultConfigFlags()
	cfgFlags.Target = "0000ffff"
	cfg, err = resolveConfig(cfgFlags)
	if err != nil {
		t.Fatalf("resolveConfig: %s", err)
	}
	if cfg.target.Word7() != 0 || cfg.target[0] != 0xff {
		t.Errorf("--target: got %s", cfg.target)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*configFlags)
	}{
		{"two target sources", func(f *configFlags) { f.Target = "ff"; f.Difficulty = 2 }},
		{"bits and difficulty", func(f *configFlags) { f.UseBits = true; f.Difficulty = 2 }},
		{"negative difficulty", func(f *configFlags) { f.Difficulty = -1 }},
		{"bad target", func(f *configFlags) { f.Target = "xyz" }},
		{"bad header", func(f *configFlags) { f.Header = "0011" }},
		{"negative bits", func(f *configFlags) { f.Bits = 0x04923456; f.UseBits = true }},
		{"zero chunk", func(f *configFlags) { f.ChunkSize = 0 }},
		{"low profile port", func(f *configFlags) { f.Profile = "80" }},
		{"bad log level", func(f *configFlags) { f.LogLevel = "loud" }},
	}

	for _, test := range tests {
		cfgFlags := defaultConfigFlags()
		test.modify(cfgFlags)
		if _, err := resolveConfig(cfgFlags); err == nil {
			t.Errorf("%s: resolveConfig unexpectedly succeeded", test.name)
		}
	}
}
