package scripting

import (
	"github.com/dop251/goja"
)

// injectVariables sets the betting globals on the JS runtime. Read-only
// semantics are enforced in syncFromVM rather than at the JS property
// level; only the script-writable subset is read back.
func injectVariables(vm *goja.Runtime, vars *Variables) {
	// Core betting
	vm.Set("balance", vars.Balance)
	vm.Set("nextbet", vars.NextBet)
	vm.Set("basebet", vars.BaseBet)
	vm.Set("previousbet", vars.PreviousBet)
	vm.Set("win", vars.Win)
	vm.Set("running", vars.Running)

	// Statistics aliases
	vm.Set("bets", vars.Stats.Bets)
	vm.Set("betcount", vars.Stats.Bets)
	vm.Set("wins", vars.Stats.Wins)
	vm.Set("losses", vars.Stats.Losses)
	vm.Set("winstreak", vars.Stats.WinStreak)
	vm.Set("losestreak", vars.Stats.LoseStreak)
	vm.Set("currentstreak", vars.Stats.CurrentStreak)
	vm.Set("profit", vars.Stats.Profit)
	vm.Set("currentprofit", vars.Stats.CurrentProfit)
	vm.Set("wagered", vars.Stats.Wagered)
	vm.Set("started_bal", vars.Stats.StartBal)

	// Game selection and bet shape
	vm.Set("game", vars.Game)
	vm.Set("betkind", vars.BetKind)
	vm.Set("betvalue", vars.BetValue)

	// Crash
	vm.Set("cashoutat", vars.CashoutAt)

	// Blackjack / baccarat round action
	vm.Set("action", vars.Action)

	// Last bet result
	vm.Set("lastBet", vars.LastBet)

	// Control
	vm.Set("stoponwin", vars.StopOnWin)
	vm.Set("sleeptime", vars.SleepTime)
}

// syncFromVM reads mutable variables back from the JS runtime into vars.
// Only variables that scripts are allowed to modify are synced.
func syncFromVM(vm *goja.Runtime, vars *Variables) {
	vars.NextBet = toInt64(vm.Get("nextbet"))
	vars.BaseBet = toInt64(vm.Get("basebet"))

	vars.Game = toString(vm.Get("game"))
	vars.BetKind = toString(vm.Get("betkind"))
	vars.BetValue = toInt(vm.Get("betvalue"))

	vars.CashoutAt = toFloat64(vm.Get("cashoutat"))
	vars.Action = toString(vm.Get("action"))

	vars.StopOnWin = toBool(vm.Get("stoponwin"))
	vars.SleepTime = toInt(vm.Get("sleeptime"))
}

// Variables holds the state shared between the engine and the script.
type Variables struct {
	// Core betting
	Balance     int64 `json:"balance"`
	NextBet     int64 `json:"nextbet"`
	BaseBet     int64 `json:"basebet"`
	PreviousBet int64 `json:"previousbet"`
	Win         bool  `json:"win"`
	Running     bool  `json:"running"`

	// Statistics (pointer, shared with engine)
	Stats *Statistics `json:"-"`

	// Game config
	Game     string `json:"game"`
	BetKind  string `json:"betkind"`
	BetValue int    `json:"betvalue"`

	// Crash
	CashoutAt float64 `json:"cashoutat"`

	// Blackjack / baccarat
	Action string `json:"action"`

	// Last bet
	LastBet map[string]interface{} `json:"lastBet"`

	// Control
	StopOnWin bool `json:"stoponwin"`
	SleepTime int  `json:"sleeptime"`
}

// NewVariables creates a Variables with defaults.
func NewVariables(stats *Statistics) *Variables {
	return &Variables{
		Stats:     stats,
		Balance:   stats.Balance,
		Game:      "dice",
		BetKind:   "over",
		BetValue:  7,
		CashoutAt: 2.0,
		Action:    "stand",
		LastBet: map[string]interface{}{
			"amount": int64(0),
			"win":    false,
			"payout": int64(0),
			"result": "",
		},
	}
}

// --- Conversion helpers ---

func toFloat64(v goja.Value) float64 {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return v.ToFloat()
}

func toInt64(v goja.Value) int64 {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return v.ToInteger()
}

func toInt(v goja.Value) int {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return int(v.ToInteger())
}

func toBool(v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return false
	}
	return v.ToBoolean()
}

func toString(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}
