package ir

import "strings"

// Inspect renders a fragment as a Ruby literal: strings single-quoted,
// lists and hashes in literal syntax, numbers and symbols bare. An empty
// fragment inspects as nil.
func Inspect(f Fragment) string {
	switch v := f.(type) {
	case Str:
		return Quote(string(v))
	case Num:
		return string(v)
	case Sym:
		return string(v)
	case Text:
		return string(v)
	case List:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = Inspect(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Hash:
		if len(v) == 0 {
			return "{}"
		}
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = Inspect(p.Key) + " => " + Inspect(p.Value)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case Seq:
		if IsEmpty(v) {
			return string(Nil)
		}
		return Raw(v)
	}
	return string(Nil)
}

// Raw renders the string form of a fragment: values unquoted, lists joined
// without separators, layout directives dropped.
func Raw(f Fragment) string {
	switch v := f.(type) {
	case Str:
		return string(v)
	case Num:
		return string(v)
	case Sym:
		return string(v)
	case Text:
		return string(v)
	case List:
		var sb strings.Builder
		for _, e := range v {
			sb.WriteString(Raw(e))
		}
		return sb.String()
	case Hash:
		return Inspect(v)
	case Seq:
		var sb strings.Builder
		for _, e := range v {
			sb.WriteString(Raw(e))
		}
		return sb.String()
	}
	return ""
}

// Quote single-quotes s for Ruby, escaping backslashes and quotes.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
