package main

import (
	"fmt"
	"io"

	whatfits "github.com/WiwiC/WhatFits"
	"github.com/WiwiC/WhatFits/check"
)

// CheckCmd checks a single page, dispatching on the detected page kind.
type CheckCmd struct {
	URL  string `arg:"" required:"" help:"Product or cart page URL."`
	JSON bool   `help:"Emit the result as JSON."`
}

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	prefs, err := deps.Preferences.LoadPreferences(deps.Ctx)
	if err != nil {
		return err
	}
	if !c.JSON {
		installProgress(deps)
	}

	outcome, err := deps.Checker.Check(deps.Ctx, c.URL, prefs)
	clearProgress(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if outcome.Kind == whatfits.PageKindCart {
			return writeCartJSON(deps.Stdout, outcome.Cart)
		}
		return writeResultJSON(deps.Stdout, outcome.Product)
	}

	if outcome.Kind == whatfits.PageKindCart {
		printCartResult(deps.Stdout, outcome.Cart)
	} else {
		printProductResult(deps.Stdout, outcome.Product)
	}
	printKeyHint(deps)
	return nil
}

// CartCmd checks every item on a cart page.
type CartCmd struct {
	URL  string `arg:"" required:"" help:"Cart page URL."`
	JSON bool   `help:"Emit the result as JSON."`
}

// Run executes the cart command.
func (c *CartCmd) Run(deps *Dependencies) error {
	prefs, err := deps.Preferences.LoadPreferences(deps.Ctx)
	if err != nil {
		return err
	}
	if !c.JSON {
		installProgress(deps)
	}

	result, err := deps.Checker.CheckCart(deps.Ctx, c.URL, prefs)
	clearProgress(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeCartJSON(deps.Stdout, result)
	}

	printCartResult(deps.Stdout, result)
	printKeyHint(deps)
	return nil
}

// installProgress wires a per-item progress line on stderr for cart
// fan-outs.
func installProgress(deps *Dependencies) {
	deps.Checker.Progress = func(completed, total int, item whatfits.CartItem) {
		fmt.Fprintf(deps.Stderr, "\r[%d/%d] %s", completed, total, item.Title)
	}
}

func clearProgress(deps *Dependencies) {
	if deps.Checker.Progress != nil {
		fmt.Fprintf(deps.Stderr, "\r%60s\r", "")
	}
}

// printKeyHint reminds the user that verdicts need an API key.
func printKeyHint(deps *Dependencies) {
	if deps.Asker == nil {
		fmt.Fprintln(deps.Stdout, "\nSet an API key for a model verdict: whatfits config set api_key <key>")
	}
}

func printProductResult(w io.Writer, res *check.Result) {
	p := res.Product

	title := p.Title
	if title == "" {
		title = p.SourceURL
	}
	if p.Brand != "" {
		fmt.Fprintf(w, "%s (%s)\n", title, p.Brand)
	} else {
		fmt.Fprintln(w, title)
	}
	if p.Price != "" {
		fmt.Fprintf(w, "Price: %s %s\n", p.Price, p.Currency)
	}
	if res.Cached {
		fmt.Fprintln(w, "(from cache)")
	}

	printFindings(w, res.Findings)
	printJudgment(w, res)
}

func printCartResult(w io.Writer, res *check.CartResult) {
	fmt.Fprintf(w, "Cart: %d items", len(res.Items))
	if res.Cart.Total != "" {
		fmt.Fprintf(w, ", total %s %s", res.Cart.Total, res.Cart.Currency)
	}
	fmt.Fprintln(w)

	for _, item := range res.Items {
		title := item.Item.Title
		if title == "" {
			title = check.TruncateURL(item.Item.ProductURL, 50)
		}
		if item.Err != nil {
			fmt.Fprintf(w, "\n%s\n  skipped: %s\n", title, whatfits.ErrorMessage(item.Err))
			continue
		}
		fmt.Fprintf(w, "\n%s", title)
		if item.Item.Quantity > 1 {
			fmt.Fprintf(w, " x%d", item.Item.Quantity)
		}
		fmt.Fprintln(w)
		printFindings(w, item.Result.Findings)
		printJudgment(w, item.Result)
	}

	if failed := res.Failed(); failed > 0 {
		fmt.Fprintf(w, "\n%d of %d items could not be checked\n", failed, len(res.Items))
	}
}

func printFindings(w io.Writer, findings []whatfits.Finding) {
	for _, f := range findings {
		fmt.Fprintf(w, "  %s\n", check.FormatFinding(f))
	}
}

func printJudgment(w io.Writer, res *check.Result) {
	if res.Judgment != nil {
		j := res.Judgment
		fmt.Fprintf(w, "  %s: %s\n", check.FormatVerdict(j.Verdict), j.Summary)
		for _, concern := range j.Concerns {
			fmt.Fprintf(w, "    - %s: %s\n", concern.Term, concern.Reason)
		}
		return
	}
	if res.JudgmentErr != nil {
		fmt.Fprintf(w, "  (model unavailable: %s)\n", whatfits.ErrorMessage(res.JudgmentErr))
	}
}
