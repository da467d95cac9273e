package rspec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/retrospec/ast"
	"github.com/teranos/retrospec/ir"
	"github.com/teranos/retrospec/logger"
	"github.com/teranos/retrospec/symtab"
)

func TestClassWithParametersFactsAndResources(t *testing.T) {
	decl := class("demo",
		[]*ast.Parameter{
			{Name: "size"},
			{Name: "mode", Value: str("fast")},
		},
		assign("path", str("/tmp")),
		resource("file", varx("path"), attr("ensure", qn("present"))),
		resource("notify", varx("::path")),
	)

	want := `describe 'demo' do
  let(:params) do
    {
      size: nil,
      # mode: 'fast',
    }
  end

  let(:facts) do
    {
      path: '/tmp',
    }
  end

  it do
    is_expected.to contain_file('/tmp').with(
      'ensure' => 'present',
    )
  end

  it do
    is_expected.to contain_notify('/tmp')
  end
end`
	assert.Equal(t, want, generate(t, decl))
}

func TestDefineHasTitleAndEmptyBlocks(t *testing.T) {
	want := `describe 'apache::vhost' do
  let(:title) { 'XXreplace_meXX' }
  let(:params) do
    {}
  end

  let(:facts) do
    {}
  end
end`
	assert.Equal(t, want, generate(t, define("apache::vhost", nil)))
}

func TestRelationshipOrdering(t *testing.T) {
	a := resource("file", str("/a"))
	b := resource("file", str("/b"))
	c := resource("service", str("httpd"))
	out := generate(t, class("demo", nil, rel("->", a, b), c))

	assert.Contains(t, out, "is_expected.to contain_file('/a')\n    .that_comes_before('File[/b]')\n  end")
	assert.Contains(t, out, "is_expected.to contain_file('/b')\n    .that_requires('File[/a]')\n  end")
	assert.Contains(t, out, "is_expected.to contain_service('httpd')\n  end")
	assert.Equal(t, 2, strings.Count(out, ".that_"))
}

func TestRelationshipOperators(t *testing.T) {
	tests := []struct {
		op          string
		left, right string
	}{
		{"->", ".that_comes_before('Package[b]')", ".that_requires('Package[a]')"},
		{"~>", ".that_notifies('Package[b]')", ".that_subscribes_to('Package[a]')"},
		{"<-", ".that_requires('Package[b]')", ".that_comes_before('Package[a]')"},
		{"<~", ".that_subscribes_to('Package[b]')", ".that_notifies('Package[a]')"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			out := generate(t, class("demo", nil,
				rel(tt.op, resource("package", str("a")), resource("package", str("b")))))
			assert.Contains(t, out, "contain_package('a')\n    "+tt.left)
			assert.Contains(t, out, "contain_package('b')\n    "+tt.right)
		})
	}
}

func TestRelationshipChain(t *testing.T) {
	a := resource("package", str("httpd"))
	b := resource("file", str("/etc/httpd.conf"))
	c := resource("service", str("httpd"))
	out := generate(t, class("demo", nil, rel("~>", rel("->", a, b), c)))

	assert.Contains(t, out, "contain_package('httpd')\n    .that_comes_before('File[/etc/httpd.conf]')\n  end")
	assert.Contains(t, out, "contain_file('/etc/httpd.conf')\n    .that_requires('Package[httpd]')\n    .that_notifies('Service[httpd]')\n  end")
	assert.Contains(t, out, "contain_service('httpd')\n    .that_subscribes_to('File[/etc/httpd.conf]')\n  end")
}

func TestRelationshipWithReference(t *testing.T) {
	fileRef := &ast.AccessExpression{Left: ref("File"), Keys: []ast.Node{str("/a")}}
	out := generate(t, class("demo", nil, rel("->", fileRef, resource("file", str("/b")))))

	assert.Contains(t, out, "contain_file('/b')\n    .that_requires('File[/a]')")
	assert.Equal(t, 1, strings.Count(out, "File[/a]"))
}

func TestRelationshipWithAttributes(t *testing.T) {
	a := resource("file", str("/a"), attr("mode", str("0644")))
	out := generate(t, class("demo", nil, rel("->", a, resource("file", str("/b")))))

	assert.Contains(t, out, "'mode' => '0644',\n    )\n    .that_comes_before('File[/b]')")
}

func TestUnassignedVariableRendersName(t *testing.T) {
	out := generate(t, class("demo", nil,
		resource("notify", varx("greeting"), attr("message", varx("missing")))))

	assert.Contains(t, out, "is_expected.to contain_notify('$greeting').with(")
	assert.Contains(t, out, "'message' => '$missing',")
}

func TestVariableSelfSeedsClassScope(t *testing.T) {
	_, d := dispatchIn(t, resource("notify", varx("greeting")))

	v, ok := d.Table().Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, ir.Str("$greeting"), v)
	assert.Equal(t, symtab.ClassScope, d.Table().Entries()[0].Scope)
}

func TestUnresolvedFactAppearsInFacts(t *testing.T) {
	out := generate(t, class("demo", nil, resource("notify", varx("::osfamily"))))
	assert.Contains(t, out, "    {\n      osfamily: '$::osfamily',\n    }")
	assert.Contains(t, out, "contain_notify('$::osfamily')")
}

func TestParameterRegistration(t *testing.T) {
	decl := class("apache", []*ast.Parameter{
		{Name: "port", Value: num(80)},
		{Name: "docroot"},
		{Name: "rest", CapturesRest: true},
	})
	ast.Link(decl)
	d := New(zaptest.NewLogger(t).Sugar())
	out := ir.Render(d.Dispatch(decl), nil)

	v, ok := d.Table().Lookup("apache::port")
	require.True(t, ok)
	assert.Equal(t, ir.Num("80"), v)
	v, ok = d.Table().Lookup("port")
	require.True(t, ok)
	assert.Equal(t, ir.Num("80"), v)
	v, _ = d.Table().Lookup("docroot")
	assert.Equal(t, ir.Undef, v)

	assert.Contains(t, out, "# port: 80,")
	assert.Contains(t, out, "docroot: nil,")
	assert.Contains(t, out, "*rest: nil,")
}

func TestParameterDefaultFromEarlierParameter(t *testing.T) {
	out := generate(t, class("demo", []*ast.Parameter{
		{Name: "base", Value: str("/srv")},
		{Name: "root", Value: &ast.ConcatenatedString{Segments: []ast.Node{
			&ast.TextExpression{Expr: varx("base")}, str("/www"),
		}}},
	}))
	assert.Contains(t, out, "# root: '/srv/www',")
}

func TestAssignment(t *testing.T) {
	t.Run("function result is nil", func(t *testing.T) {
		call := &ast.CallNamedFunctionExpression{Functor: qn("lookup"), Arguments: []ast.Node{str("x")}, RvalRequired: true}
		_, d := dispatchIn(t, assign("x", call))
		v, ok := d.Table().Lookup("x")
		require.True(t, ok)
		assert.Equal(t, ir.Nil, v)
	})

	t.Run("later assignment overwrites", func(t *testing.T) {
		decl := class("demo", nil, assign("x", str("a")), assign("x", str("b")))
		ast.Link(decl)
		d := New(nil)
		d.Dispatch(decl)
		v, _ := d.Table().Lookup("x")
		assert.Equal(t, ir.Str("b"), v)
	})

	t.Run("self assignment is ignored", func(t *testing.T) {
		_, d := dispatchIn(t, assign("x", varx("x")))
		assert.Equal(t, 0, d.Table().Len())
	})

	t.Run("top scope", func(t *testing.T) {
		_, d := dispatchIn(t, assign("::x", num(1)))
		require.Len(t, d.Table().TopScopeEntries(), 1)
		assert.Equal(t, "$::x", d.Table().TopScopeEntries()[0].Key)
	})

	t.Run("destructuring", func(t *testing.T) {
		a := &ast.AssignmentExpression{Operator: "=", Left: list(varx("a"), varx("b")), Right: list(num(1), str("two"))}
		_, d := dispatchIn(t, a)
		v, _ := d.Table().Lookup("a")
		assert.Equal(t, ir.Num("1"), v)
		v, _ = d.Table().Lookup("b")
		assert.Equal(t, ir.Str("two"), v)
	})

	t.Run("append", func(t *testing.T) {
		decl := class("demo", nil,
			assign("pkgs", list(str("a"))),
			&ast.AssignmentExpression{Operator: "+=", Left: varx("pkgs"), Right: list(str("b"))},
		)
		ast.Link(decl)
		d := New(nil)
		d.Dispatch(decl)
		v, _ := d.Table().Lookup("pkgs")
		assert.Equal(t, ir.List{ir.Str("a"), ir.Str("b")}, v)
	})

	t.Run("renders nothing", func(t *testing.T) {
		f, _ := dispatchIn(t, assign("x", str("a")))
		assert.True(t, ir.IsEmpty(f))
	})
}

func TestAccessExpression(t *testing.T) {
	decl := class("demo", nil,
		assign("l", list(str("a"), str("b"), str("c"))),
		assign("h", hash(str("k"), num(7))),
		resource("notify", str("x"),
			attr("first", &ast.AccessExpression{Left: varx("l"), Keys: []ast.Node{num(0)}}),
			attr("last", &ast.AccessExpression{Left: varx("l"), Keys: []ast.Node{num(-1)}}),
			attr("keyed", &ast.AccessExpression{Left: varx("h"), Keys: []ast.Node{str("k")}}),
			attr("ref", &ast.AccessExpression{Left: ref("apache::vhost"), Keys: []ast.Node{str("site")}}),
		),
	)
	out := generate(t, decl)
	assert.Contains(t, out, "'first' => 'a',")
	assert.Contains(t, out, "'last' => 'c',")
	assert.Contains(t, out, "'keyed' => 7,")
	assert.Contains(t, out, "'ref' => 'Apache::Vhost[site]',")
}

func TestInvalidIndexAccess(t *testing.T) {
	decl := class("demo", nil,
		assign("l", list(str("a"))),
		resource("notify", str("x"),
			attr("oob", &ast.AccessExpression{Left: varx("l"), Keys: []ast.Node{num(5)}}),
			attr("scalar", &ast.AccessExpression{Left: str("abc"), Keys: []ast.Node{num(0)}}),
		),
	)
	out, logs := observed(decl)

	assert.Contains(t, out, "'oob' => nil,")
	assert.Contains(t, out, "'scalar' => nil,")
	errs := logs.FilterMessage("invalid index access").All()
	require.Len(t, errs, 2)
	assert.Equal(t, logger.SeverityFatal, errs[0].ContextMap()[logger.FieldSeverity])
}

func TestUnsupportedNode(t *testing.T) {
	decl := class("demo", nil,
		&ast.Unknown{Name: "NodeDefinition"},
		resource("file", str("/a")),
	)
	out, logs := observed(decl)

	assert.Contains(t, out, "contain_file('/a')")
	warned := logs.FilterMessage("unsupported node").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "NodeDefinition", warned[0].ContextMap()[logger.FieldKind])

	d := New(nil)
	assert.True(t, ir.IsEmpty(d.Dispatch(nil)))
}

func TestContainmentFunctions(t *testing.T) {
	out := generate(t, class("demo", nil,
		&ast.CallNamedFunctionExpression{Functor: qn("include"), Arguments: []ast.Node{qn("apache"), qn("::mysql")}},
		&ast.CallNamedFunctionExpression{Functor: qn("notice"), Arguments: []ast.Node{str("hi")}},
	))
	assert.Contains(t, out, "  it do\n    is_expected.to contain_class('apache')\n  end")
	assert.Contains(t, out, "contain_class('mysql')")
	assert.NotContains(t, out, "hi")
}

func TestMethodCalls(t *testing.T) {
	split := &ast.CallMethodExpression{
		Functor:      &ast.NamedAccessExpression{Left: varx("::dirs"), Right: qn("split")},
		Arguments:    []ast.Node{str(",")},
		RvalRequired: true,
	}
	each := &ast.CallMethodExpression{
		Functor: &ast.NamedAccessExpression{Left: varx("items"), Right: qn("each")},
		Lambda: &ast.LambdaExpression{
			Parameters: []*ast.Parameter{{Name: "item"}},
			Body:       blockOf(resource("file", varx("item"))),
		},
	}
	decl := class("demo", nil, resource("file", str("/a"), attr("content", split)), each)
	ast.Link(decl)
	d := New(zaptest.NewLogger(t).Sugar())
	out := ir.Render(d.Dispatch(decl), nil)

	assert.Contains(t, out, "'content' => # some_value(','),")
	assert.Contains(t, out, "contain_file(:undef)")

	var lambdaScoped bool
	for _, e := range d.Table().Entries() {
		if e.Key == "$item" && e.Scope == symtab.LambdaScope {
			lambdaScoped = true
		}
	}
	assert.True(t, lambdaScoped)
}

func TestConditionalBranchesAreWalked(t *testing.T) {
	out := generate(t, class("demo", nil,
		&ast.IfExpression{Test: varx("::enabled"), Then: blockOf(resource("service", str("a"))), Else: resource("service", str("b"))},
		&ast.UnlessExpression{Test: varx("x"), Then: resource("service", str("c"))},
	))
	for _, s := range []string{"a", "b", "c"} {
		assert.Contains(t, out, "contain_service('"+s+"')")
	}
}

func TestNestedDeclarationSkipped(t *testing.T) {
	inner := define("demo::inner", nil, resource("file", str("/inner")))
	out := generate(t, class("demo", nil, inner, resource("file", str("/outer"))))

	assert.Equal(t, 1, strings.Count(out, "describe"))
	assert.NotContains(t, out, "/inner")
	assert.Contains(t, out, "/outer")
}

func TestNestedDeclarationRendersOnItsOwn(t *testing.T) {
	inner := define("demo::inner", nil, resource("file", str("/inner")))
	ast.Link(class("demo", nil, inner, resource("file", str("/outer"))))
	require.NotNil(t, inner.Parent())

	out := ir.Render(New(nil).Dispatch(inner), nil)
	assert.True(t, strings.HasPrefix(out, "describe 'demo::inner' do"), out)
	assert.Contains(t, out, "let(:title) { 'XXreplace_meXX' }")
	assert.Contains(t, out, "contain_file('/inner')")
	assert.NotContains(t, out, "/outer")
}

func TestArrayTitleExpands(t *testing.T) {
	out := generate(t, class("demo", nil, resource("package", list(str("vim"), str("git")))))
	assert.Contains(t, out, "contain_package('vim')")
	assert.Contains(t, out, "contain_package('git')")
}

func TestNamespacedResourceType(t *testing.T) {
	out := generate(t, class("demo", nil, resource("apache::vhost", str("site"))))
	assert.Contains(t, out, "contain_apache__vhost('site')")
}

func TestProgramIsTransparent(t *testing.T) {
	p := &ast.Program{Body: blockOf(class("a", nil), class("b", nil))}
	ast.Link(p)
	out := ir.Render(New(nil).Dispatch(p), nil)
	assert.True(t, strings.HasPrefix(out, "describe 'a' do"))
	assert.Contains(t, out, "describe 'b' do")
}

func TestTypeReference(t *testing.T) {
	assert.Equal(t, "File", TypeReference("file"))
	assert.Equal(t, "Apache::Vhost", TypeReference("apache::vhost"))
	assert.Equal(t, "Apache", TypeReference("::apache"))
	assert.Equal(t, "", TypeReference(""))
}

func TestFactName(t *testing.T) {
	assert.Equal(t, "osfamily", FactName("$::osfamily"))
	assert.Equal(t, "path", FactName("$path"))
}

func TestGeneratorMetadata(t *testing.T) {
	g := NewGenerator(nil)
	assert.Equal(t, "rspec-puppet", g.Language())
	assert.Equal(t, "rb", g.FileExtension())
}
