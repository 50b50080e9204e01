package sitebuild

import "testing"

func TestStableBuildIDIgnoresInputOrder(t *testing.T) {
	a := InputDigest{Kind: "source_html", Path: "src/index.html", SHA256: "aa"}
	b := InputDigest{Kind: "config_yaml", Path: "sitebuild.yaml", SHA256: "bb"}
	if stableBuildID([]InputDigest{a, b}, "strict") != stableBuildID([]InputDigest{b, a}, "strict") {
		t.Fatal("build id must not depend on input order")
	}
	if stableBuildID([]InputDigest{a}, "strict") == stableBuildID([]InputDigest{a}, "permissive") {
		t.Fatal("build id must depend on variant")
	}
}

func TestAddTraceOrdersEntries(t *testing.T) {
	var state buildState
	addTrace(&state, "minify", "ok", nil)
	addTrace(&state, "extract", "ok_with_warnings", map[string]interface{}{"script_count": 0})
	if len(state.Trace) != 2 || state.Trace[0].Order != 1 || state.Trace[1].Order != 2 {
		t.Fatalf("trace=%+v", state.Trace)
	}
}
