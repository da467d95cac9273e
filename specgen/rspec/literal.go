package rspec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
)

// literalInteger keeps the base the integer was written in. The sign goes
// before the base prefix: -010, -0x8.
func literalInteger(_ *Dispatcher, n ast.Node) ir.Fragment {
	i := n.(*ast.LiteralInteger)
	sign, mag := "", uint64(i.Value)
	if i.Value < 0 {
		sign, mag = "-", uint64(-(i.Value+1))+1
	}
	switch i.Radix {
	case 10:
		return ir.Num(strconv.FormatInt(i.Value, 10))
	case 8:
		return ir.Num(sign + "0" + strconv.FormatUint(mag, 8))
	case 16:
		return ir.Num(fmt.Sprintf("%s0x%X", sign, mag))
	}
	return ir.Str("bad radix:" + strconv.FormatInt(i.Value, 10))
}

func literalFloat(_ *Dispatcher, n ast.Node) ir.Fragment {
	v := n.(*ast.LiteralFloat).Value
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ir.Str(strconv.FormatFloat(v, 'g', -1, 64))
	}
	format := byte('f')
	if a := math.Abs(v); a >= 1e16 || (a != 0 && a < 1e-4) {
		format = 'e'
	}
	s := strconv.FormatFloat(v, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return ir.Num(s)
}

func literalString(_ *Dispatcher, n ast.Node) ir.Fragment {
	return ir.Str(n.(*ast.LiteralString).Value)
}

func qualifiedName(_ *Dispatcher, n ast.Node) ir.Fragment {
	return ir.Str(n.(*ast.QualifiedName).Value)
}

func qualifiedReference(_ *Dispatcher, n ast.Node) ir.Fragment {
	return ir.Str(n.(*ast.QualifiedReference).Value)
}

func literalBoolean(_ *Dispatcher, n ast.Node) ir.Fragment {
	return ir.Sym(strconv.FormatBool(n.(*ast.LiteralBoolean).Value))
}

func literalList(d *Dispatcher, n ast.Node) ir.Fragment {
	values := n.(*ast.LiteralList).Values
	out := make(ir.List, 0, len(values))
	for _, v := range values {
		out = append(out, d.value(v))
	}
	return out
}

func literalHash(d *Dispatcher, n ast.Node) ir.Fragment {
	entries := n.(*ast.LiteralHash).Entries
	out := make(ir.Hash, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			out = append(out, ir.Pair{Key: d.value(e.Key), Value: d.value(e.Value)})
		}
	}
	return out
}

func keyedEntry(d *Dispatcher, n ast.Node) ir.Fragment {
	e := n.(*ast.KeyedEntry)
	return ir.Hash{{Key: d.value(e.Key), Value: d.value(e.Value)}}
}

func literalRegex(_ *Dispatcher, n ast.Node) ir.Fragment {
	return ir.Sym("/" + n.(*ast.LiteralRegularExpression).Value + "/")
}
