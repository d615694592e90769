package util

import (
	"strings"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("AITH_STR", "  value ")
	t.Setenv("AITH_BOOL", "false")
	t.Setenv("AITH_BAD_BOOL", "nope")
	t.Setenv("AITH_DUR", "90s")
	t.Setenv("AITH_BAD_DUR", "-1s")
	t.Setenv("AITH_INT", "7")

	if got := Env("AITH_STR", "def"); got != "value" {
		t.Errorf("Env trimmed = %q", got)
	}
	if got := Env("AITH_MISSING", "def"); got != "def" {
		t.Errorf("Env default = %q", got)
	}
	if BoolEnv("AITH_BOOL", true) {
		t.Error("BoolEnv should parse false")
	}
	if !BoolEnv("AITH_BAD_BOOL", true) {
		t.Error("BoolEnv should fall back on invalid input")
	}
	if got := DurationEnv("AITH_DUR", time.Minute); got != 90*time.Second {
		t.Errorf("DurationEnv = %v", got)
	}
	if got := DurationEnv("AITH_BAD_DUR", time.Minute); got != time.Minute {
		t.Errorf("DurationEnv negative = %v", got)
	}
	if got := IntEnv("AITH_INT", 1); got != 7 {
		t.Errorf("IntEnv = %d", got)
	}
}

func TestFirstEnv(t *testing.T) {
	t.Setenv("AITH_B", "b")
	if got := FirstEnv("def", "AITH_A", "AITH_B"); got != "b" {
		t.Errorf("FirstEnv = %q", got)
	}
	if got := FirstEnv("def", "AITH_A"); got != "def" {
		t.Errorf("FirstEnv default = %q", got)
	}
}

func TestMustEnvPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustEnv("AITH_DEFINITELY_MISSING")
}

func TestNewID(t *testing.T) {
	a, b := NewID("trg"), NewID("trg")
	if !strings.HasPrefix(a, "trg_") || len(a) != 36 {
		t.Errorf("unexpected id %q", a)
	}
	if a == b {
		t.Error("ids should be unique")
	}
}
