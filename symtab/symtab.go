// Package symtab is the scoped variable store used during one generation
// pass. It maps sigil-prefixed variable names to the IR value observed for
// them, so references can be replaced with concrete literals.
//
// A Table belongs to exactly one pass over one declaration. It is not safe
// for concurrent use and must not be reused.
package symtab

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/retrospec/ir"
	"github.com/teranos/retrospec/logger"
)

// Sigil prefixes every normalized key.
const Sigil = "$"

// Separator splits a namespaced key into qualifier and name.
const Separator = "::"

// Scope classifies where an entry was observed.
type Scope int

const (
	TopScope Scope = iota
	ClassScope
	ParameterScope
	LambdaScope
)

func (s Scope) String() string {
	switch s {
	case TopScope:
		return "top_scope"
	case ClassScope:
		return "class_scope"
	case ParameterScope:
		return "parameter"
	case LambdaScope:
		return "lambda_scope"
	}
	return "unknown"
}

// Entry is one stored variable.
type Entry struct {
	Key   string
	Value ir.Fragment
	Scope Scope
}

// Table holds the entries of one pass.
type Table struct {
	log     *zap.SugaredLogger
	entries map[string]Entry
}

// New creates an empty table reporting store events to log. A nil log
// discards them.
func New(log *zap.SugaredLogger) *Table {
	return &Table{
		log:     logger.OrNop(log),
		entries: make(map[string]Entry),
	}
}

// Normalize prefixes key with the sigil unless it already has one.
func Normalize(key string) string {
	if strings.HasPrefix(key, Sigil) {
		return key
	}
	return Sigil + key
}

// unqualified splits a normalized key into its qualifier (without sigil) and
// its sigiled short form. ok is false when key has no separator.
func unqualified(key string) (qualifier, short string, ok bool) {
	i := strings.LastIndex(key, Separator)
	if i < 0 {
		return "", key, false
	}
	return strings.TrimPrefix(key[:i], Sigil), Sigil + key[i+len(Separator):], true
}

// Lookup returns the value stored under key. On a miss it retries with the
// unqualified form of a namespaced key.
func (t *Table) Lookup(key string) (ir.Fragment, bool) {
	key = Normalize(key)
	if e, ok := t.entries[key]; ok {
		t.log.Debugw("store hit", logger.FieldKey, key, logger.FieldValue, ir.Inspect(e.Value))
		return e.Value, true
	}
	if _, short, ok := unqualified(key); ok {
		if e, found := t.entries[short]; found {
			t.log.Debugw("store hit", logger.FieldKey, short, logger.FieldValue, ir.Inspect(e.Value))
			return e.Value, true
		}
	}
	t.log.Debugw("store miss", logger.FieldKey, key)
	return nil, false
}

// Store writes value under key and returns the value now held by the table.
// An existing entry is only replaced when force is set; otherwise the write
// is dropped and the earlier value returned.
//
// A namespaced key also stores its unqualified alias (never forced) unless
// the qualifier is empty, as in $::name.
func (t *Table) Store(key string, value ir.Fragment, scope Scope, force bool) ir.Fragment {
	key = Normalize(key)
	if e, ok := t.entries[key]; ok && !force {
		t.log.Debugw("store write blocked",
			logger.FieldKey, key,
			logger.FieldValue, ir.Inspect(value),
			logger.FieldScope, scope.String())
		return e.Value
	}

	t.log.Debugw("store write",
		logger.FieldKey, key,
		logger.FieldValue, ir.Inspect(value),
		logger.FieldScope, scope.String())
	t.entries[key] = Entry{Key: key, Value: value, Scope: scope}

	qualifier, short, ok := unqualified(key)
	if ok && qualifier != "" && short != Sigil && short != key {
		t.Store(short, value, scope, false)
	}
	return value
}

// TopScopeEntries returns the top scope entries sorted by key.
func (t *Table) TopScopeEntries() []Entry {
	var out []Entry
	for _, e := range t.entries {
		if e.Scope == TopScope {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// Entries returns every entry sorted by key.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out
}

// Len returns the number of stored keys, aliases included.
func (t *Table) Len() int {
	return len(t.entries)
}

func sortEntries(es []Entry) {
	sort.Slice(es, func(i, j int) bool { return es[i].Key < es[j].Key })
}
