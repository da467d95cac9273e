package ast

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/teranos/retrospec/errors"
)

// Format is the encoding of an AST dump.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the dump format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrUnknownFormat, "cannot tell the format of %s", path),
		"AST dumps must end in .json, .yaml or .yml")
}

// IsDumpFile reports whether path looks like an AST dump.
func IsDumpFile(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// DecodeFile reads and decodes one AST dump.
func DecodeFile(path string) (*Program, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	prog, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return prog, nil
}

// Decode parses a serialized tree and links it. A root that is not a
// Program is wrapped in one.
func Decode(data []byte, format Format) (*Program, error) {
	var raw interface{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, "invalid JSON")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "invalid YAML")
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnknownFormat, "format %q", format)
	}

	obj, ok := asObject(raw)
	if !ok {
		return nil, errors.NewInvalidASTError("root is %T, want an object", raw)
	}
	root, err := build(obj)
	if err != nil {
		return nil, err
	}

	prog, ok := root.(*Program)
	if !ok {
		prog = &Program{Body: root}
	}
	Link(prog)
	return prog, nil
}

type builderFunc func(obj map[string]interface{}) (Node, error)

var builders map[Kind]builderFunc

func init() {
	builders = map[Kind]builderFunc{
		KindProgram: func(o map[string]interface{}) (Node, error) {
			body, err := child(o, "body")
			if err != nil {
				return nil, err
			}
			defs, err := childList(o, "definitions")
			return &Program{Body: body, Definitions: defs}, err
		},
		KindBlockExpression: func(o map[string]interface{}) (Node, error) {
			stmts, err := childList(o, "statements")
			return &BlockExpression{Statements: stmts}, err
		},
		KindResourceExpression: func(o map[string]interface{}) (Node, error) {
			typeName, err := child(o, "type_name")
			if err != nil {
				return nil, err
			}
			list, err := childList(o, "bodies")
			if err != nil {
				return nil, err
			}
			bodies := make([]*ResourceBody, 0, len(list))
			for _, n := range list {
				b, ok := n.(*ResourceBody)
				if !ok {
					return nil, errors.NewInvalidASTError("resource body is %s", n.Kind())
				}
				bodies = append(bodies, b)
			}
			return &ResourceExpression{TypeName: typeName, Bodies: bodies, Form: str(o, "form")}, nil
		},
		KindResourceBody: func(o map[string]interface{}) (Node, error) {
			title, err := child(o, "title")
			if err != nil {
				return nil, err
			}
			ops, err := childList(o, "operations")
			return &ResourceBody{Title: title, Operations: ops}, err
		},
		KindResourceTypeDefinition: func(o map[string]interface{}) (Node, error) {
			ps, body, err := signature(o)
			return &ResourceTypeDefinition{Name: str(o, "name"), Parameters: ps, Body: body}, err
		},
		KindHostClassDefinition: func(o map[string]interface{}) (Node, error) {
			ps, body, err := signature(o)
			return &HostClassDefinition{
				Name:        str(o, "name"),
				Parameters:  ps,
				Body:        body,
				ParentClass: str(o, "parent_class"),
			}, err
		},
		KindParameter: func(o map[string]interface{}) (Node, error) {
			value, err := child(o, "value")
			if err != nil {
				return nil, err
			}
			typeExpr, err := child(o, "type_expr")
			return &Parameter{
				Name:         str(o, "name"),
				Value:        value,
				TypeExpr:     typeExpr,
				CapturesRest: boolean(o, "captures_rest"),
			}, err
		},
		KindAssignmentExpression: func(o map[string]interface{}) (Node, error) {
			left, right, err := operands(o)
			return &AssignmentExpression{Operator: strOr(o, "operator", "="), Left: left, Right: right}, err
		},
		KindVariableExpression: func(o map[string]interface{}) (Node, error) {
			expr, err := child(o, "expr")
			return &VariableExpression{Expr: expr}, err
		},
		KindNamedAccessExpression: func(o map[string]interface{}) (Node, error) {
			left, right, err := operands(o)
			return &NamedAccessExpression{Left: left, Right: right}, err
		},
		KindAccessExpression: func(o map[string]interface{}) (Node, error) {
			left, err := child(o, "left_expr")
			if err != nil {
				return nil, err
			}
			keys, err := childList(o, "keys")
			return &AccessExpression{Left: left, Keys: keys}, err
		},
		KindConcatenatedString: func(o map[string]interface{}) (Node, error) {
			segs, err := childList(o, "segments")
			return &ConcatenatedString{Segments: segs}, err
		},
		KindTextExpression: func(o map[string]interface{}) (Node, error) {
			expr, err := child(o, "expr")
			return &TextExpression{Expr: expr}, err
		},
		KindRelationshipExpression: func(o map[string]interface{}) (Node, error) {
			left, right, err := operands(o)
			return &RelationshipExpression{Operator: strOr(o, "operator", "->"), Left: left, Right: right}, err
		},
		KindAttributeOperation: func(o map[string]interface{}) (Node, error) {
			value, err := child(o, "value_expr")
			return &AttributeOperation{
				AttributeName: str(o, "attribute_name"),
				Operator:      strOr(o, "operator", "=>"),
				Value:         value,
			}, err
		},
		KindAttributesOperation: func(o map[string]interface{}) (Node, error) {
			expr, err := child(o, "expr")
			return &AttributesOperation{Expr: expr}, err
		},
		KindCallMethodExpression: func(o map[string]interface{}) (Node, error) {
			functor, args, lambda, err := call(o)
			return &CallMethodExpression{
				Functor:      functor,
				Arguments:    args,
				Lambda:       lambda,
				RvalRequired: boolean(o, "rval_required"),
			}, err
		},
		KindCallNamedFunctionExpression: func(o map[string]interface{}) (Node, error) {
			functor, args, lambda, err := call(o)
			return &CallNamedFunctionExpression{
				Functor:      functor,
				Arguments:    args,
				Lambda:       lambda,
				RvalRequired: boolean(o, "rval_required"),
			}, err
		},
		KindLambdaExpression: func(o map[string]interface{}) (Node, error) {
			ps, body, err := signature(o)
			return &LambdaExpression{Parameters: ps, Body: body}, err
		},
		KindCapabilityMapping: func(o map[string]interface{}) (Node, error) {
			component, err := child(o, "component")
			if err != nil {
				return nil, err
			}
			mappings, err := childList(o, "mappings")
			return &CapabilityMapping{
				MappingKind: str(o, "mapping_kind"),
				Component:   component,
				Capability:  str(o, "capability"),
				Mappings:    mappings,
			}, err
		},
		KindParenthesizedExpression: func(o map[string]interface{}) (Node, error) {
			expr, err := child(o, "expr")
			return &ParenthesizedExpression{Expr: expr}, err
		},
		KindNotExpression: func(o map[string]interface{}) (Node, error) {
			expr, err := child(o, "expr")
			return &NotExpression{Expr: expr}, err
		},
		KindIfExpression: func(o map[string]interface{}) (Node, error) {
			test, then, els, err := conditional(o)
			return &IfExpression{Test: test, Then: then, Else: els}, err
		},
		KindUnlessExpression: func(o map[string]interface{}) (Node, error) {
			test, then, els, err := conditional(o)
			return &UnlessExpression{Test: test, Then: then, Else: els}, err
		},
		KindQualifiedName: func(o map[string]interface{}) (Node, error) {
			return &QualifiedName{Value: str(o, "value")}, nil
		},
		KindQualifiedReference: func(o map[string]interface{}) (Node, error) {
			return &QualifiedReference{Value: strOr(o, "cased_value", str(o, "value"))}, nil
		},
		KindKeyedEntry: func(o map[string]interface{}) (Node, error) {
			key, err := child(o, "key")
			if err != nil {
				return nil, err
			}
			value, err := child(o, "value")
			return &KeyedEntry{Key: key, Value: value}, err
		},
		KindLiteralInteger: func(o map[string]interface{}) (Node, error) {
			v, err := integer(o, "value")
			if err != nil {
				return nil, err
			}
			radix := 10
			if _, ok := o["radix"]; ok {
				r, err := integer(o, "radix")
				if err != nil {
					return nil, err
				}
				radix = int(r)
			}
			return &LiteralInteger{Value: v, Radix: radix}, nil
		},
		KindLiteralFloat: func(o map[string]interface{}) (Node, error) {
			v, err := float(o, "value")
			return &LiteralFloat{Value: v}, err
		},
		KindLiteralString: func(o map[string]interface{}) (Node, error) {
			return &LiteralString{Value: str(o, "value")}, nil
		},
		KindLiteralBoolean: func(o map[string]interface{}) (Node, error) {
			return &LiteralBoolean{Value: boolean(o, "value")}, nil
		},
		KindLiteralList: func(o map[string]interface{}) (Node, error) {
			values, err := childList(o, "values")
			return &LiteralList{Values: values}, err
		},
		KindLiteralHash: func(o map[string]interface{}) (Node, error) {
			list, err := childList(o, "entries")
			if err != nil {
				return nil, err
			}
			entries := make([]*KeyedEntry, 0, len(list))
			for _, n := range list {
				e, ok := n.(*KeyedEntry)
				if !ok {
					return nil, errors.NewInvalidASTError("hash entry is %s", n.Kind())
				}
				entries = append(entries, e)
			}
			return &LiteralHash{Entries: entries}, nil
		},
		KindLiteralRegularExpression: func(o map[string]interface{}) (Node, error) {
			return &LiteralRegularExpression{Value: strOr(o, "pattern", str(o, "value"))}, nil
		},
		KindLiteralDefault: func(map[string]interface{}) (Node, error) { return &LiteralDefault{}, nil },
		KindLiteralUndef:   func(map[string]interface{}) (Node, error) { return &LiteralUndef{}, nil },
		KindNop:            func(map[string]interface{}) (Node, error) { return &Nop{}, nil },
	}
}

func build(obj map[string]interface{}) (Node, error) {
	kind := str(obj, "kind")
	if kind == "" {
		return nil, errors.NewInvalidASTError("object without kind: %v", keys(obj))
	}
	if fn, ok := builders[Kind(kind)]; ok {
		return fn(obj)
	}
	return buildUnknown(kind, obj)
}

// buildUnknown keeps every nested node of an unmodelled variant, in key order.
func buildUnknown(kind string, obj map[string]interface{}) (Node, error) {
	u := &Unknown{Name: kind}
	for _, k := range keys(obj) {
		nodes, err := anyNodes(obj[k])
		if err != nil {
			return nil, err
		}
		u.Nodes = append(u.Nodes, nodes...)
	}
	return u, nil
}

func anyNodes(v interface{}) ([]Node, error) {
	if o, ok := asObject(v); ok {
		if _, hasKind := o["kind"]; hasKind {
			n, err := build(o)
			if err != nil {
				return nil, err
			}
			return []Node{n}, nil
		}
		return nil, nil
	}
	if list, ok := v.([]interface{}); ok {
		var out []Node
		for _, item := range list {
			nodes, err := anyNodes(item)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil
	}
	return nil, nil
}

func child(o map[string]interface{}, field string) (Node, error) {
	v, ok := o[field]
	if !ok || v == nil {
		return nil, nil
	}
	obj, ok := asObject(v)
	if !ok {
		return nil, errors.NewInvalidASTError("field %s of %s is %T, want an object", field, str(o, "kind"), v)
	}
	return build(obj)
}

func childList(o map[string]interface{}, field string) ([]Node, error) {
	v, ok := o[field]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, errors.NewInvalidASTError("field %s of %s is %T, want a list", field, str(o, "kind"), v)
	}
	out := make([]Node, 0, len(list))
	for i, item := range list {
		obj, ok := asObject(item)
		if !ok {
			return nil, errors.NewInvalidASTError("%s[%d] of %s is %T, want an object", field, i, str(o, "kind"), item)
		}
		n, err := build(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func operands(o map[string]interface{}) (Node, Node, error) {
	left, err := child(o, "left_expr")
	if err != nil {
		return nil, nil, err
	}
	right, err := child(o, "right_expr")
	return left, right, err
}

func signature(o map[string]interface{}) ([]*Parameter, Node, error) {
	list, err := childList(o, "parameters")
	if err != nil {
		return nil, nil, err
	}
	ps := make([]*Parameter, 0, len(list))
	for _, n := range list {
		p, ok := n.(*Parameter)
		if !ok {
			return nil, nil, errors.NewInvalidASTError("parameter is %s", n.Kind())
		}
		ps = append(ps, p)
	}
	body, err := child(o, "body")
	return ps, body, err
}

func call(o map[string]interface{}) (Node, []Node, *LambdaExpression, error) {
	functor, err := child(o, "functor_expr")
	if err != nil {
		return nil, nil, nil, err
	}
	args, err := childList(o, "arguments")
	if err != nil {
		return nil, nil, nil, err
	}
	l, err := child(o, "lambda")
	if err != nil || l == nil {
		return functor, args, nil, err
	}
	lambda, ok := l.(*LambdaExpression)
	if !ok {
		return nil, nil, nil, errors.NewInvalidASTError("lambda is %s", l.Kind())
	}
	return functor, args, lambda, nil
}

func conditional(o map[string]interface{}) (Node, Node, Node, error) {
	test, err := child(o, "test")
	if err != nil {
		return nil, nil, nil, err
	}
	then, err := child(o, "then_expr")
	if err != nil {
		return nil, nil, nil, err
	}
	els, err := child(o, "else_expr")
	return test, then, els, err
}

// asObject accepts both JSON objects and YAML mappings.
func asObject(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func str(o map[string]interface{}, field string) string {
	switch v := o[field].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

func strOr(o map[string]interface{}, field, fallback string) string {
	if s := str(o, field); s != "" {
		return s
	}
	return fallback
}

func boolean(o map[string]interface{}, field string) bool {
	b, _ := o[field].(bool)
	return b
}

func integer(o map[string]interface{}, field string) (int64, error) {
	switch v := o[field].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, errors.NewInvalidASTError("field %s: %s is not a 64-bit integer", field, v)
		}
		return n, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, errors.NewInvalidASTError("field %s: %d overflows a 64-bit integer", field, v)
		}
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "field %s", field)
		}
		return n, nil
	}
	return 0, errors.NewInvalidASTError("field %s is %T, want an integer", field, o[field])
}

func float(o map[string]interface{}, field string) (float64, error) {
	switch v := o[field].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, errors.Wrapf(err, "field %s", field)
		}
		return f, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "field %s", field)
		}
		return f, nil
	}
	return 0, errors.NewInvalidASTError("field %s is %T, want a number", field, o[field])
}

func keys(o map[string]interface{}) []string {
	out := make([]string, 0, len(o))
	for k := range o {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
