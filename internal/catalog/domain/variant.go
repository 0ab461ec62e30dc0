package domain

import (
	"encoding/json"
	"strings"
)

// NormalizeToken returns the canonical form of a size or color token: a
// lower-cased, trimmed string. Unknown input normalizes to "", which matches
// nothing in filter comparisons; empty filter selections short-circuit as "no
// constraint" before tokens are ever compared.
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeTokens normalizes a list of raw tokens, dropping empties.
func NormalizeTokens(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := NormalizeToken(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Size is a product size. Stored rows and older API payloads carry either a
// bare string ("M") or an object ({"value":"M","size_type":"letter"}, with a
// legacy "size" key as fallback). UnmarshalJSON is the single chokepoint
// performing that disambiguation; the rest of the code only sees the struct.
type Size struct {
	Value    string `json:"value"`
	SizeType string `json:"size_type,omitempty"`
}

// UnmarshalJSON accepts both the bare-string and object encodings.
func (s *Size) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Value = str
		s.SizeType = ""
		return nil
	}

	var obj struct {
		Value    string `json:"value"`
		Size     string `json:"size"`
		SizeType string `json:"size_type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	s.Value = obj.Value
	if s.Value == "" {
		s.Value = obj.Size
	}
	s.SizeType = obj.SizeType
	return nil
}

// Canonical returns the size's canonical comparison token.
func (s Size) Canonical() string {
	return NormalizeToken(s.Value)
}

// Color is a product color, encoded either as a bare string ("Navy") or an
// object ({"name":"Navy","hex_code":"#001f3f"}, with a legacy "value" key as
// fallback).
type Color struct {
	Name    string `json:"name"`
	HexCode string `json:"hex_code,omitempty"`
}

// UnmarshalJSON accepts both the bare-string and object encodings.
func (c *Color) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		c.Name = str
		c.HexCode = ""
		return nil
	}

	var obj struct {
		Name    string `json:"name"`
		Value   string `json:"value"`
		HexCode string `json:"hex_code"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	c.Name = obj.Name
	if c.Name == "" {
		c.Name = obj.Value
	}
	c.HexCode = obj.HexCode
	return nil
}

// Canonical returns the color's canonical comparison token.
func (c Color) Canonical() string {
	return NormalizeToken(c.Name)
}
