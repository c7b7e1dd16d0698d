package domain

import (
	"context"
	"strings"
)

// Option is one member of the fixed vote choice set.
type Option string

const (
	OptionCats Option = "cats"
	OptionDogs Option = "dogs"
)

// Options returns the closed set of valid vote options.
func Options() []Option {
	return []Option{OptionCats, OptionDogs}
}

// ParseOption validates a raw submission against the closed option set.
// The second return value is false for anything outside the set.
func ParseOption(raw string) (Option, bool) {
	switch Option(raw) {
	case OptionCats, OptionDogs:
		return Option(raw), true
	}
	return "", false
}

func (o Option) String() string {
	return string(o)
}

// Label returns the option formatted for display on the voting form.
func (o Option) Label() string {
	if o == "" {
		return ""
	}
	return strings.ToUpper(string(o[0])) + string(o[1:])
}

// Tally is the persisted running count for one option. A missing row is
// equivalent to a count of zero.
type Tally struct {
	Option Option `db:"option" json:"option"`
	Count  int64  `db:"count" json:"count"`
}

// BallotQueue is the shared queue hand-off between intake and the worker.
// Push appends to the head; BlockingPop removes from the tail (FIFO).
type BallotQueue interface {
	Push(ctx context.Context, option Option) error
	BlockingPop(ctx context.Context) (string, error)
	Len(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// TallyRepository persists per-option vote counts.
type TallyRepository interface {
	EnsureSchema(ctx context.Context) error
	Increment(ctx context.Context, option Option) error
	Counts(ctx context.Context) ([]Tally, error)
}

// TallyReader is the read-only view served by the results service.
type TallyReader interface {
	Counts(ctx context.Context) ([]Tally, error)
	Ping(ctx context.Context) error
}
