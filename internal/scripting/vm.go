package scripting

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// LogEntry is one line emitted by the script through log().
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

const (
	executeTimeout = 2 * time.Second
	hookTimeout    = time.Second
	interruptGrace = 200 * time.Millisecond
	maxLogLines    = 500
)

// gameConstants are the casino vocabulary exposed to scripts: bet kinds per
// wheel/card game and the actions a round() hook may return. Values match the
// wire strings the tables accept, so a script can assign them straight to
// betkind or action.
var gameConstants = map[string]string{
	"ROULETTE_NUMBER": "number",
	"ROULETTE_RED":    "red",
	"ROULETTE_BLACK":  "black",
	"ROULETTE_ODD":    "odd",
	"ROULETTE_EVEN":   "even",
	"ROULETTE_LOW":    "low",
	"ROULETTE_HIGH":   "high",

	"BACCARAT_PLAYER": "player",
	"BACCARAT_BANKER": "banker",
	"BACCARAT_TIE":    "tie",

	"DICE_OVER":  "over",
	"DICE_UNDER": "under",
	"DICE_EXACT": "exact",

	"BLACKJACK_HIT":   "hit",
	"BLACKJACK_STAND": "stand",
}

// blockedGlobals are stripped from the runtime so scripts stay confined to
// betting logic: no module loading, no network, no dynamic code.
var blockedGlobals = []string{"require", "fetch", "XMLHttpRequest", "eval", "Function"}

// VM is the sandboxed goja runtime a betting script runs in. Scripts define
// dobet() and optionally round(); the engine drives those hooks and shares
// state with the script through injected globals. Control requests the
// script makes (stop, resetstats) land in Go-side flags rather than runtime
// globals, so the engine reads them without re-entering JS.
type VM struct {
	rt *goja.Runtime
	mu sync.Mutex

	logs   []LogEntry
	logsMu sync.Mutex

	// flagsMu is separate from mu: the stop/resetstats host functions run
	// on the goroutine that already holds mu for the script call.
	flagsMu    sync.Mutex
	stopped    bool
	resetStats bool
}

// NewVM builds a runtime with the casino constants seeded, the host
// functions installed, and the blocked globals removed.
func NewVM() *VM {
	vm := &VM{rt: goja.New()}
	for name, value := range gameConstants {
		vm.rt.Set(name, value)
	}
	vm.installHostFuncs()
	for _, name := range blockedGlobals {
		vm.rt.Set(name, goja.Undefined())
	}
	return vm
}

func (vm *VM) installHostFuncs() {
	vm.rt.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		vm.appendLog(strings.Join(parts, " "))
		return goja.Undefined()
	})

	console := vm.rt.NewObject()
	console.Set("log", vm.rt.Get("log"))
	vm.rt.Set("console", console)

	vm.rt.Set("stop", func(call goja.FunctionCall) goja.Value {
		vm.flagsMu.Lock()
		vm.stopped = true
		vm.flagsMu.Unlock()
		vm.rt.Set("running", false)
		return goja.Undefined()
	})

	vm.rt.Set("resetstats", func(call goja.FunctionCall) goja.Value {
		vm.flagsMu.Lock()
		vm.resetStats = true
		vm.flagsMu.Unlock()
		return goja.Undefined()
	})

	vm.rt.Set("sleep", func(call goja.FunctionCall) goja.Value {
		ms := 0
		if len(call.Arguments) > 0 {
			ms = int(call.Arguments[0].ToInteger())
		}
		vm.rt.Set("sleeptime", ms)
		return goja.Undefined()
	})
}

func (vm *VM) appendLog(msg string) {
	vm.logsMu.Lock()
	if len(vm.logs) >= maxLogLines {
		vm.logs = vm.logs[1:]
	}
	vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
	vm.logsMu.Unlock()
}

// Execute evaluates the script source once, registering dobet() and
// optionally round() as globals for the session.
func (vm *VM) Execute(source string) error {
	return vm.guarded(executeTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		if _, err := vm.rt.RunString(source); err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// hook resolves a script-defined global to a callable. Caller holds vm.mu.
func (vm *VM) hook(name string) (goja.Callable, error) {
	val := vm.rt.Get(name)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, fmt.Errorf("%s() function is not defined", name)
	}
	fn, ok := goja.AssertFunction(val)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", name)
	}
	return fn, nil
}

// CallDobet invokes the script's dobet() hook, which sets nextbet and the
// bet shape for the coming round.
func (vm *VM) CallDobet() error {
	return vm.guarded(hookTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		fn, err := vm.hook("dobet")
		if err != nil {
			return err
		}
		if _, err := fn(goja.Undefined()); err != nil {
			return fmt.Errorf("dobet() error: %w", err)
		}
		return nil
	})
}

// CallRound invokes the script's round() hook for card games that take
// mid-round decisions. The returned value is the chosen action: one of the
// BLACKJACK_* constants for blackjack, "draw_third" for baccarat; a script
// may instead assign the action global and return nothing.
func (vm *VM) CallRound() (goja.Value, error) {
	var out goja.Value
	err := vm.guarded(hookTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		fn, err := vm.hook("round")
		if err != nil {
			return err
		}
		res, err := fn(goja.Undefined())
		if err != nil {
			return fmt.Errorf("round() error: %w", err)
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HasDobetFunc reports whether the script defined dobet(). A script without
// it is rejected at start.
func (vm *VM) HasDobetFunc() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, err := vm.hook("dobet")
	return err == nil
}

// HasRoundFunc reports whether the script defined round(). When absent the
// engine finishes card rounds with the table's default policy.
func (vm *VM) HasRoundFunc() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, err := vm.hook("round")
	return err == nil
}

// IsStopRequested reports whether the script called stop().
func (vm *VM) IsStopRequested() bool {
	vm.flagsMu.Lock()
	defer vm.flagsMu.Unlock()
	return vm.stopped
}

// IsResetStatsRequested reports whether the script called resetstats() since
// the last check, clearing the flag.
func (vm *VM) IsResetStatsRequested() bool {
	vm.flagsMu.Lock()
	defer vm.flagsMu.Unlock()
	req := vm.resetStats
	vm.resetStats = false
	return req
}

// SetVariables pushes the engine's variable state into the runtime.
func (vm *VM) SetVariables(vars *Variables) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	injectVariables(vm.rt, vars)
}

// SyncVariables reads the script-writable globals back into vars.
func (vm *VM) SyncVariables(vars *Variables) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	syncFromVM(vm.rt, vars)
}

// GetSleepTime returns the sleeptime value the script last set.
func (vm *VM) GetSleepTime() int {
	val := vm.rt.Get("sleeptime")
	if val == nil || goja.IsUndefined(val) {
		return 0
	}
	return int(val.ToInteger())
}

// ResetSleepTime clears sleeptime after the engine has honored it.
func (vm *VM) ResetSleepTime() {
	vm.rt.Set("sleeptime", 0)
}

// GetLogs returns a copy of the script's log buffer.
func (vm *VM) GetLogs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

// guarded runs fn with a deadline, interrupting the runtime if the script
// spins past it.
func (vm *VM) guarded(timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		vm.rt.Interrupt("script execution timeout")
		defer vm.rt.ClearInterrupt()
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("script timed out: %w", err)
			}
			return fmt.Errorf("script timed out")
		case <-time.After(interruptGrace):
			return fmt.Errorf("script timed out")
		}
	}
}
