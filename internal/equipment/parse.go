package equipment

import (
	"bytes"
	"encoding/json"
)

// ParsePage decodes a list response body. Servers answer in one of three
// shapes, tried in a fixed priority order:
//
//  1. a bare array of records,
//  2. an envelope with a "data" array plus optional "meta",
//  3. an envelope with an "items" array plus optional "meta".
//
// Any other shape yields an empty page rather than an error.
func ParsePage(body []byte) Page {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Page{}
	}

	if trimmed[0] == '[' {
		var items []Equipment
		if err := json.Unmarshal(trimmed, &items); err == nil {
			return Page{Items: items}
		}
		return Page{}
	}

	var envelope struct {
		Data  []Equipment `json:"data"`
		Items []Equipment `json:"items"`
		Meta  *Meta       `json:"meta"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Page{}
	}

	switch {
	case envelope.Data != nil:
		return Page{Items: envelope.Data, Meta: envelope.Meta}
	case envelope.Items != nil:
		return Page{Items: envelope.Items, Meta: envelope.Meta}
	}
	return Page{}
}
