package extract

import "testing"

func TestInlineSelectsLastScriptAndFirstStyle(t *testing.T) {
	doc := `<html><head><style>a{color:blue}</style><style>b{color:red}</style></head>` +
		`<body><script>first()</script><script>second()</script></body></html>`
	got, err := Inline(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Script != "second()" {
		t.Fatalf("script=%q want=%q", got.Script, "second()")
	}
	if got.Style != "a{color:blue}" {
		t.Fatalf("style=%q want=%q", got.Style, "a{color:blue}")
	}
	if got.ScriptCount != 2 || got.StyleCount != 2 {
		t.Fatalf("counts=%d/%d want=2/2", got.ScriptCount, got.StyleCount)
	}
}

func TestInlineNoBlocks(t *testing.T) {
	got, err := Inline(`<html><body><p>plain</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Script != "" || got.Style != "" || got.HasScript() || got.HasStyle() {
		t.Fatalf("expected empty extraction, got %+v", got)
	}
}

func TestInlineSkipsExternalScripts(t *testing.T) {
	got, err := Inline(`<script>inline()</script><script src="https://cdn.example/lib.js"></script>`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Script != "inline()" || got.ScriptCount != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestInlineKeepsRawBytes(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{name: "entities not decoded", doc: `<script>if(a&amp;&amp;b){}</script>`, want: `if(a&amp;&amp;b){}`},
		{name: "whitespace kept", doc: "<script> x()\r\n</script>", want: " x()\r\n"},
		{name: "markup inside body", doc: `<script>document.write("<b>")</script>`, want: `document.write("<b>")`},
		{name: "empty body", doc: `<script>one()</script><script></script>`, want: ""},
		{name: "uppercase tag", doc: `<SCRIPT>up()</SCRIPT>`, want: "up()"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Inline(tc.doc)
			if err != nil {
				t.Fatal(err)
			}
			if got.Script != tc.want {
				t.Fatalf("script=%q want=%q", got.Script, tc.want)
			}
		})
	}
}

func TestInlineScriptWithAttributesStillInline(t *testing.T) {
	got, err := Inline(`<script type="module">run()</script>`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Script != "run()" {
		t.Fatalf("script=%q", got.Script)
	}
}

func TestInlineSkipsDataBlocks(t *testing.T) {
	doc := `<script>app()</script><script type="application/ld+json">{"@type":"Organization"}</script>` +
		`<script type="text/template"><b>{{name}}</b></script>`
	got, err := Inline(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Script != "app()" {
		t.Fatalf("script=%q want=%q", got.Script, "app()")
	}
	if got.ScriptCount != 1 {
		t.Fatalf("script_count=%d want=1", got.ScriptCount)
	}
}

func TestExecutableScriptType(t *testing.T) {
	cases := []struct {
		typ  string
		want bool
	}{
		{"", true},
		{"  ", true},
		{"text/javascript", true},
		{"Text/JavaScript", true},
		{"application/javascript", true},
		{"application/x-javascript", true},
		{"text/ecmascript", true},
		{"text/javascript; charset=utf-8", true},
		{"module", true},
		{"application/ld+json", false},
		{"application/json", false},
		{"text/template", false},
		{"importmap", false},
	}
	for _, tc := range cases {
		if got := ExecutableScriptType(tc.typ); got != tc.want {
			t.Fatalf("ExecutableScriptType(%q)=%v want=%v", tc.typ, got, tc.want)
		}
	}
}
