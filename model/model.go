package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Well-known model names.
const (
	// DefaultText is used for text, chat and vision requests.
	DefaultText = "openai"
	// DefaultImage is used for image generation.
	DefaultImage = "flux"
	// DefaultAudio is used for speech and transcription.
	DefaultAudio = "openai-audio"

	Turbo   = "turbo"
	Kontext = "kontext"
)

// Kind selects one of the two model lists.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Kinds lists every kind in lookup order.
var Kinds = []Kind{KindText, KindImage}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindText || k == KindImage
}

// Model is a normalized entry from a model list.
type Model struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	MaxInputChars          int      `json:"maxInputChars,omitempty"`
	Reasoning              bool     `json:"reasoning,omitempty"`
	Community              bool     `json:"community"`
	Tier                   string   `json:"tier,omitempty"`
	Aliases                []string `json:"aliases"`
	InputModalities        []string `json:"input_modalities"`
	OutputModalities       []string `json:"output_modalities"`
	Tools                  bool     `json:"tools"`
	Vision                 bool     `json:"vision"`
	Audio                  bool     `json:"audio"`
	Voices                 []string `json:"voices,omitempty"`
	SupportsSystemMessages bool     `json:"supportsSystemMessages"`

	// Fields holds the complete normalized record, including keys the
	// struct does not model.
	Fields map[string]any `json:"-"`
}

// Get returns the raw field value, or def when absent.
func (m Model) Get(field string, def any) any {
	if v, ok := m.Fields[field]; ok {
		return v
	}
	return def
}

// Names returns the model name followed by its aliases.
func (m Model) Names() []string {
	return append([]string{m.Name}, m.Aliases...)
}

// MarshalJSON encodes the full normalized record.
func (m Model) MarshalJSON() ([]byte, error) {
	if m.Fields != nil {
		return json.Marshal(m.Fields)
	}
	type plain Model
	return json.Marshal(plain(m))
}

// defaults are applied to every record that lacks the key.
var defaults = map[string]func() any{
	"aliases":                func() any { return []any{} },
	"input_modalities":       func() any { return []any{} },
	"output_modalities":      func() any { return []any{} },
	"tools":                  func() any { return false },
	"vision":                 func() any { return false },
	"audio":                  func() any { return false },
	"community":              func() any { return false },
	"supportsSystemMessages": func() any { return true },
}

// Normalize decodes a model list response. It accepts a bare array of
// names, an array of records, an object wrapping the array under
// "models", an object keyed by model name, or a single record. Any other
// shape yields an empty list.
func Normalize(raw []byte) ([]Model, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("model list: %w", err)
	}
	return NormalizeValue(v), nil
}

// NormalizeValue normalizes an already decoded model list.
func NormalizeValue(v any) []Model {
	switch raw := v.(type) {
	case []any:
		return normalizeList(raw)
	case map[string]any:
		if list, ok := raw["models"].([]any); ok {
			return normalizeList(list)
		}
		if _, ok := raw["name"].(string); ok {
			return []Model{normalizeRecord(raw, "")}
		}
		return normalizeKeyed(raw)
	default:
		return []Model{}
	}
}

func normalizeList(items []any) []Model {
	out := make([]Model, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			out = append(out, normalizeRecord(nil, it))
		case map[string]any:
			out = append(out, normalizeRecord(it, ""))
		}
	}
	return out
}

// normalizeKeyed handles {"<name>": {...}} catalogs. Keys are sorted so the
// result is stable.
func normalizeKeyed(raw map[string]any) []Model {
	names := make([]string, 0, len(raw))
	for name, info := range raw {
		if _, ok := info.(map[string]any); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	out := make([]Model, 0, len(names))
	for _, name := range names {
		out = append(out, normalizeRecord(raw[name].(map[string]any), name))
	}
	return out
}

// normalizeRecord works on a copy of src. name fills in a missing "name".
func normalizeRecord(src map[string]any, name string) Model {
	rec := make(map[string]any, len(src)+len(defaults)+1)
	for k, v := range src {
		rec[k] = v
	}
	if _, ok := rec["name"]; !ok && name != "" {
		rec["name"] = name
	}
	if teir, ok := rec["teir"]; ok {
		if _, hasTier := rec["tier"]; !hasTier {
			rec["tier"] = teir
			delete(rec, "teir")
		}
	}
	// Some lists send a single alias as a string.
	if alias, ok := rec["aliases"].(string); ok {
		rec["aliases"] = []any{alias}
	}
	for key, def := range defaults {
		if _, ok := rec[key]; !ok {
			rec[key] = def()
		}
	}

	m := Model{
		Name:                   stringField(rec, "name"),
		Description:            stringField(rec, "description"),
		Tier:                   stringField(rec, "tier"),
		MaxInputChars:          intField(rec, "maxInputChars"),
		Reasoning:              boolField(rec, "reasoning"),
		Community:              boolField(rec, "community"),
		Tools:                  boolField(rec, "tools"),
		Vision:                 boolField(rec, "vision"),
		Audio:                  boolField(rec, "audio"),
		SupportsSystemMessages: boolField(rec, "supportsSystemMessages"),
		Aliases:                stringsField(rec, "aliases"),
		InputModalities:        stringsField(rec, "input_modalities"),
		OutputModalities:       stringsField(rec, "output_modalities"),
		Voices:                 stringsField(rec, "voices"),
		Fields:                 rec,
	}
	if m.Voices != nil && len(m.Voices) == 0 {
		m.Voices = nil
	}
	return m
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func boolField(rec map[string]any, key string) bool {
	b, _ := rec[key].(bool)
	return b
}

func intField(rec map[string]any, key string) int {
	f, _ := rec[key].(float64)
	return int(f)
}

func stringsField(rec map[string]any, key string) []string {
	list, ok := rec[key].([]any)
	if !ok {
		if typed, ok := rec[key].([]string); ok {
			return slices.Clone(typed)
		}
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Voices returns the distinct voices offered by the given models, in order
// of first appearance.
func Voices(models []Model) []string {
	var out []string
	for _, m := range models {
		for _, v := range m.Voices {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// AudioModels returns the models that produce or accept audio: names
// containing "audio", models with voices, or an audio modality.
func AudioModels(models []Model) []Model {
	var out []Model
	for _, m := range models {
		if strings.Contains(m.Name, "audio") || len(m.Voices) > 0 || m.Audio ||
			slices.Contains(m.OutputModalities, "audio") || slices.Contains(m.InputModalities, "audio") {
			out = append(out, m)
		}
	}
	return out
}
