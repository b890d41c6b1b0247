package models

import (
	"sort"
	"testing"
)

func TestResolve_BuiltinEntries(t *testing.T) {
	r := NewRegistry(nil)

	info := r.Resolve("llama-3.3-70b-versatile")
	if info.ContextWindow != 128000 || info.SupportsVision {
		t.Errorf("llama-3.3-70b-versatile = %#v", info)
	}

	vision := r.Resolve("meta-llama/llama-4-scout-17b-16e-instruct")
	if !vision.SupportsVision {
		t.Error("llama-4-scout should support vision")
	}

	oss := r.Resolve("openai/gpt-oss-120b")
	if !oss.SupportsBuiltinTools {
		t.Error("gpt-oss-120b should support built-in tools")
	}
}

func TestResolve_UnknownFallsBackToDefault(t *testing.T) {
	r := NewRegistry(nil)
	info := r.Resolve("some-model-nobody-has-heard-of")
	if info.ContextWindow != 8192 {
		t.Errorf("unknown model window = %d, want the default 8192", info.ContextWindow)
	}
	if info.SupportsVision || info.SupportsBuiltinTools {
		t.Errorf("unknown model gained capabilities: %#v", info)
	}
}

func TestResolve_CustomShadowsBuiltin(t *testing.T) {
	r := NewRegistry(map[string]ModelInfo{
		"llama-3.3-70b-versatile": {ContextWindow: 32768},
		"my-local-model":          {SupportsVision: true},
	})

	shadowed := r.Resolve("llama-3.3-70b-versatile")
	if shadowed.ContextWindow != 32768 || !shadowed.IsCustom {
		t.Errorf("shadowed entry = %#v", shadowed)
	}

	custom := r.Resolve("my-local-model")
	if !custom.IsCustom || !custom.SupportsVision {
		t.Errorf("custom entry = %#v", custom)
	}
	if custom.DisplayName != "my-local-model" {
		t.Errorf("display name = %q, want the identifier", custom.DisplayName)
	}
	if custom.ContextWindow != 8192 {
		t.Errorf("custom window = %d, want the default 8192", custom.ContextWindow)
	}
}

func TestKnown_SortedWithoutDefault(t *testing.T) {
	r := NewRegistry(map[string]ModelInfo{"zzz-custom": {}})
	ids := r.Known()

	if !sort.StringsAreSorted(ids) {
		t.Errorf("Known() not sorted: %v", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "default" {
			t.Error("Known() leaked the default placeholder")
		}
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if !seen["zzz-custom"] {
		t.Error("custom model missing from Known()")
	}
	if !seen[DefaultModel] {
		t.Errorf("default model %q missing from Known()", DefaultModel)
	}
}

func TestNilRegistryResolves(t *testing.T) {
	var r *Registry
	if info := r.Resolve(DefaultModel); info.ContextWindow != 128000 {
		t.Errorf("nil registry Resolve = %#v", info)
	}
}
