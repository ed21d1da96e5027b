package main

import (
	"encoding/json"
	"io"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/check"
)

// resultJSON is the machine-readable form of a product check.
type resultJSON struct {
	Product       *whatfits.Product  `json:"product"`
	Findings      []whatfits.Finding `json:"findings"`
	Cached        bool               `json:"cached"`
	Judgment      *whatfits.Judgment `json:"judgment,omitempty"`
	JudgmentError string             `json:"judgmentError,omitempty"`
	ContextTokens int                `json:"contextTokens,omitempty"`
}

type cartItemJSON struct {
	Item   whatfits.CartItem `json:"item"`
	Result *resultJSON       `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type cartJSON struct {
	Cart  *whatfits.Cart `json:"cart"`
	Items []cartItemJSON `json:"items"`
}

func toResultJSON(res *check.Result) *resultJSON {
	out := &resultJSON{
		Product:       res.Product,
		Findings:      res.Findings,
		Cached:        res.Cached,
		Judgment:      res.Judgment,
		ContextTokens: res.ContextTokens,
	}
	if res.JudgmentErr != nil {
		out.JudgmentError = whatfits.ErrorMessage(res.JudgmentErr)
	}
	return out
}

func writeResultJSON(w io.Writer, res *check.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toResultJSON(res))
}

func writeCartJSON(w io.Writer, res *check.CartResult) error {
	out := cartJSON{
		Cart:  res.Cart,
		Items: make([]cartItemJSON, 0, len(res.Items)),
	}
	for _, item := range res.Items {
		entry := cartItemJSON{Item: item.Item}
		if item.Result != nil {
			entry.Result = toResultJSON(item.Result)
		}
		if item.Err != nil {
			entry.Error = whatfits.ErrorMessage(item.Err)
		}
		out.Items = append(out.Items, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
