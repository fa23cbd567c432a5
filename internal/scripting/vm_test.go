package scripting

import (
	"strings"
	"testing"
)

func TestVMConstantsMatchTableVocabulary(t *testing.T) {
	vm := NewVM()
	err := vm.Execute(`
		game = "roulette"
		betkind = ROULETTE_RED
		action = BLACKJACK_HIT
	`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	vars := NewVariables(NewStatistics(1000))
	vm.SyncVariables(vars)
	if vars.BetKind != "red" {
		t.Errorf("betkind = %q, want red", vars.BetKind)
	}
	if vars.Action != "hit" {
		t.Errorf("action = %q, want hit", vars.Action)
	}
}

func TestVMBlocksHostGlobals(t *testing.T) {
	vm := NewVM()
	for _, src := range []string{`require("fs")`, `eval("1+1")`, `fetch("http://x")`} {
		if err := vm.Execute(src); err == nil {
			t.Errorf("%s should not be callable", src)
		}
	}
}

func TestVMResetStatsFlagClearsOnRead(t *testing.T) {
	vm := NewVM()
	if err := vm.Execute(`dobet = function() { resetstats() }`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := vm.CallDobet(); err != nil {
		t.Fatalf("CallDobet: %v", err)
	}
	if !vm.IsResetStatsRequested() {
		t.Fatal("reset request not recorded")
	}
	if vm.IsResetStatsRequested() {
		t.Error("reset request should clear after read")
	}
}

func TestVMHookDetection(t *testing.T) {
	vm := NewVM()
	if vm.HasDobetFunc() || vm.HasRoundFunc() {
		t.Fatal("fresh runtime should define no hooks")
	}
	if err := vm.Execute(`dobet = function() {}; round = "not a function"`); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !vm.HasDobetFunc() {
		t.Error("dobet() not detected")
	}
	if vm.HasRoundFunc() {
		t.Error("non-function round should not count as a hook")
	}
}

func TestVMInterruptsRunawayScript(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the script deadline")
	}
	vm := NewVM()
	err := vm.Execute(`while (true) {}`)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("err = %v, want timeout", err)
	}
}
