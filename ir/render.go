package ir

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/teranos/retrospec/logger"
)

// IndentUnit is the text emitted per indentation level.
const IndentUnit = "  "

// Render flattens f depth-first, left to right, and joins the resulting
// parts. Every call starts with an indentation counter of zero, so rendering
// the same fragment twice gives the same text.
func Render(f Fragment, log *zap.SugaredLogger) string {
	r := &renderer{log: logger.OrNop(log)}
	r.flatten(f)
	return Join(r.parts)
}

// Join concatenates rendered parts, inserting one space between neighbours
// unless the right part is ")", the left part ends in whitespace or "(", or
// the right part starts with whitespace.
func Join(parts []string) string {
	var sb strings.Builder
	for i, p := range parts {
		if i > 0 && needsSpace(parts[i-1], p) {
			sb.WriteByte(' ')
		}
		sb.WriteString(p)
	}
	return sb.String()
}

func needsSpace(left, right string) bool {
	if right == ")" || left == "" || right == "" {
		return false
	}
	last := rune(left[len(left)-1])
	if last == '(' || unicode.IsSpace(last) {
		return false
	}
	return !unicode.IsSpace(rune(right[0]))
}

type renderer struct {
	log   *zap.SugaredLogger
	depth int
	parts []string
}

func (r *renderer) flatten(f Fragment) {
	switch v := f.(type) {
	case nil:
	case Seq:
		for _, c := range v {
			r.flatten(c)
		}
	case List:
		for _, c := range v {
			r.flatten(c)
		}
	case Text:
		r.emit(string(v))
	case Str, Num, Sym:
		r.emit(Raw(v))
	case Hash:
		r.emit(Inspect(v))
	case Break:
		r.emit("\n" + r.indent())
	case IndentBreak:
		r.emit(r.indent() + "\n")
	case Indent:
		r.depth++
	case Dedent:
		r.dedent()
	case BlockOpen:
		r.depth++
		r.emit("\n" + r.indent())
	case BlockClose:
		r.dedent()
		r.emit("\n" + r.indent())
	}
}

func (r *renderer) emit(s string) {
	if s != "" {
		r.parts = append(r.parts, s)
	}
}

func (r *renderer) dedent() {
	if r.depth == 0 {
		r.log.Warnw("dedent underflow", "depth", r.depth)
		return
	}
	r.depth--
}

func (r *renderer) indent() string {
	return strings.Repeat(IndentUnit, r.depth)
}
