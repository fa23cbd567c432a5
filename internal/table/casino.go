package table

import (
	"fmt"
	"sort"
)

// Casino owns one table per game, all drawing rounds from the same source
// and sharing the emitter, recorder and logger.
type Casino struct {
	tables map[string]Table
}

// NewCasino builds the full table floor.
func NewCasino(opts Options) *Casino {
	tables := []Table{
		NewBlackjack(opts),
		NewBaccarat(opts),
		NewRoulette(opts),
		NewDice(opts),
		NewSlots(opts),
		NewCrash(opts),
		NewWheel(opts),
	}
	byGame := make(map[string]Table, len(tables))
	for _, t := range tables {
		byGame[t.Game()] = t
	}
	return &Casino{tables: byGame}
}

// Table returns the table for a game id.
func (c *Casino) Table(game string) (Table, error) {
	t, ok := c.tables[game]
	if !ok {
		return nil, fmt.Errorf("unknown game %q", game)
	}
	return t, nil
}

// List returns the game ids in stable order.
func (c *Casino) List() []string {
	ids := make([]string, 0, len(c.tables))
	for id := range c.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResetBalances restores every table's bankroll and returns the new balance.
func (c *Casino) ResetBalances() int64 {
	var balance int64
	for _, t := range c.tables {
		balance = t.ResetBalance()
	}
	return balance
}

// Close shuts down every table.
func (c *Casino) Close() {
	for _, t := range c.tables {
		t.Close()
	}
}
