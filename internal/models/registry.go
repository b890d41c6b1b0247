// Package models resolves model identifiers to capability descriptors.
// The registry is pure: no I/O, no mutation after construction.
package models

import "sort"

// ModelInfo describes the capabilities of one model.
type ModelInfo struct {
	ContextWindow        int
	SupportsVision       bool
	SupportsBuiltinTools bool
	DisplayName          string
	IsCustom             bool
}

// DefaultModel is used when neither the caller nor settings pick one.
const DefaultModel = "llama-3.3-70b-versatile"

// builtin is the static capability table. The "default" entry is the
// fallback for unknown identifiers; capability decisions are taken from
// these records only, never from name heuristics.
var builtin = map[string]ModelInfo{
	"default": {
		ContextWindow: 8192,
		DisplayName:   "Default",
	},
	"llama-3.3-70b-versatile": {
		ContextWindow: 128000,
		DisplayName:   "Llama 3.3 70B Versatile",
	},
	"llama-3.1-8b-instant": {
		ContextWindow: 128000,
		DisplayName:   "Llama 3.1 8B Instant",
	},
	"meta-llama/llama-4-scout-17b-16e-instruct": {
		ContextWindow:  128000,
		SupportsVision: true,
		DisplayName:    "Llama 4 Scout 17B",
	},
	"meta-llama/llama-4-maverick-17b-128e-instruct": {
		ContextWindow:  128000,
		SupportsVision: true,
		DisplayName:    "Llama 4 Maverick 17B",
	},
	"openai/gpt-oss-20b": {
		ContextWindow:        128000,
		SupportsBuiltinTools: true,
		DisplayName:          "GPT-OSS 20B",
	},
	"openai/gpt-oss-120b": {
		ContextWindow:        128000,
		SupportsBuiltinTools: true,
		DisplayName:          "GPT-OSS 120B",
	},
	"qwen/qwen3-32b": {
		ContextWindow: 128000,
		DisplayName:   "Qwen 3 32B",
	},
	"moonshotai/kimi-k2-instruct": {
		ContextWindow: 128000,
		DisplayName:   "Kimi K2 Instruct",
	},
	"deepseek-r1-distill-llama-70b": {
		ContextWindow: 128000,
		DisplayName:   "DeepSeek R1 Distill Llama 70B",
	},
	"gemma2-9b-it": {
		ContextWindow: 8192,
		DisplayName:   "Gemma 2 9B",
	},
}

// Registry maps model identifiers to ModelInfo, combining the built-in
// table with user-defined custom entries.
type Registry struct {
	custom map[string]ModelInfo
}

// NewRegistry builds a registry over the built-in table plus custom
// entries. Custom entries shadow built-in ones.
func NewRegistry(custom map[string]ModelInfo) *Registry {
	entries := make(map[string]ModelInfo, len(custom))
	for id, info := range custom {
		info.IsCustom = true
		if info.DisplayName == "" {
			info.DisplayName = id
		}
		if info.ContextWindow <= 0 {
			info.ContextWindow = builtin["default"].ContextWindow
		}
		entries[id] = info
	}
	return &Registry{custom: entries}
}

// Resolve returns the ModelInfo for id. Fallback order: user-custom
// entry, built-in entry, the built-in "default" entry.
func (r *Registry) Resolve(id string) ModelInfo {
	if r != nil {
		if info, ok := r.custom[id]; ok {
			return info
		}
	}
	if info, ok := builtin[id]; ok {
		return info
	}
	return builtin["default"]
}

// Known returns all model identifiers in the registry, sorted, with the
// "default" placeholder excluded.
func (r *Registry) Known() []string {
	ids := make([]string, 0, len(builtin))
	for id := range builtin {
		if id == "default" {
			continue
		}
		ids = append(ids, id)
	}
	if r != nil {
		for id := range r.custom {
			if _, ok := builtin[id]; !ok {
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}
