// Package ir is the intermediate document model between the node dispatcher
// and the final text: a closed set of fragments mixing literal text, layout
// directives and literal values still waiting to be rendered.
//
// Rules emit fragments and never compute columns; Render owns indentation
// and spacing.
package ir

// Fragment is one element of a document. The set of implementations is
// closed; see the types below.
type Fragment interface {
	fragment()
}

// Layout fragments.
type (
	// Text is literal output text.
	Text string
	// Break emits a newline followed by the current indentation.
	Break struct{}
	// IndentBreak emits the current indentation followed by a newline.
	IndentBreak struct{}
	// Indent increments the indentation counter. It has no text.
	Indent struct{}
	// Dedent decrements the indentation counter. It has no text.
	Dedent struct{}
	// BlockOpen increments the indentation counter, then breaks.
	BlockOpen struct{}
	// BlockClose decrements the indentation counter, then breaks.
	BlockClose struct{}
	// Seq is an ordered, arbitrarily nested sequence.
	Seq []Fragment
)

// Value fragments. These carry literal data through the tree so rules can
// index, join or quote them before they become text.
type (
	// Str is a string value.
	Str string
	// Num is a numeric literal already written in its base.
	Num string
	// Sym is a bare symbolic marker: :undef, :default, nil, true, /re/.
	Sym string
	// List is an ordered list value.
	List []Fragment
	// Hash is an ordered mapping value.
	Hash []Pair
)

// Pair is one entry of a Hash.
type Pair struct {
	Key   Fragment
	Value Fragment
}

func (Text) fragment()        {}
func (Break) fragment()       {}
func (IndentBreak) fragment() {}
func (Indent) fragment()      {}
func (Dedent) fragment()      {}
func (BlockOpen) fragment()   {}
func (BlockClose) fragment()  {}
func (Seq) fragment()         {}
func (Str) fragment()         {}
func (Num) fragment()         {}
func (Sym) fragment()         {}
func (List) fragment()        {}
func (Hash) fragment()        {}

// Markers shared by rules and the symbol table.
const (
	Undef   Sym = ":undef"
	Default Sym = ":default"
	NopSym  Sym = ":nop"
	Nil     Sym = "nil"
)

// Empty is the fragment that renders to nothing.
var Empty = Seq(nil)

// Of builds a Seq, dropping nil fragments.
func Of(parts ...Fragment) Seq {
	out := make(Seq, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// IsEmpty reports whether f renders no text and moves no indentation.
func IsEmpty(f Fragment) bool {
	switch v := f.(type) {
	case nil:
		return true
	case Seq:
		for _, c := range v {
			if !IsEmpty(c) {
				return false
			}
		}
		return true
	case Text:
		return v == ""
	}
	return false
}

// IsValue reports whether f is a value fragment.
func IsValue(f Fragment) bool {
	switch f.(type) {
	case Str, Num, Sym, List, Hash:
		return true
	}
	return false
}
