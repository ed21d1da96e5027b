package main

import (
	"fmt"
	"strings"

	whatfits "github.com/WiwiC/WhatFits"
)

// PrefsCmd shows or updates the preferences record.
type PrefsCmd struct {
	Show  ShowPrefsCmd  `cmd:"" default:"1" help:"Show the stored preferences."`
	Set   SetPrefsCmd   `cmd:"" help:"Update preference fields."`
	Clear ClearPrefsCmd `cmd:"" help:"Reset all preferences."`
}

// ShowPrefsCmd prints the stored preferences.
type ShowPrefsCmd struct{}

// Run executes the prefs show command.
func (c *ShowPrefsCmd) Run(deps *Dependencies) error {
	prefs, err := deps.Preferences.LoadPreferences(deps.Ctx)
	if err != nil {
		return err
	}

	if prefs.IsZero() {
		fmt.Fprintln(deps.Stdout, "No preferences set. Use: whatfits prefs set")
		return nil
	}

	if prefs.Diet != whatfits.DietNone {
		fmt.Fprintf(deps.Stdout, "Diet:       %s\n", prefs.Diet)
	}
	if len(prefs.AvoidIngredients) > 0 {
		fmt.Fprintf(deps.Stdout, "Avoid:      %s\n", strings.Join(prefs.AvoidIngredients, ", "))
	}
	if len(prefs.Allergens) > 0 {
		fmt.Fprintf(deps.Stdout, "Allergens:  %s\n", strings.Join(prefs.Allergens, ", "))
	}
	if len(prefs.PreferLabels) > 0 {
		fmt.Fprintf(deps.Stdout, "Prefer:     %s\n", strings.Join(prefs.PreferLabels, ", "))
	}
	if prefs.MaxUnitPrice != "" {
		fmt.Fprintf(deps.Stdout, "Max price:  %s\n", prefs.MaxUnitPrice)
	}
	if prefs.Notes != "" {
		fmt.Fprintf(deps.Stdout, "Notes:      %s\n", prefs.Notes)
	}
	return nil
}

// SetPrefsCmd updates preference fields. Fields not named on the
// command line keep their stored value; list flags replace the whole
// list.
type SetPrefsCmd struct {
	Diet     string   `help:"Diet: vegetarian, vegan, halal, kosher, or none."`
	Avoid    []string `help:"Ingredients to avoid (replaces the stored list)."`
	Allergen []string `help:"Allergens to flag (replaces the stored list)."`
	Label    []string `help:"Labels to prefer, e.g. organic (replaces the stored list)."`
	MaxPrice string   `name:"max-price" help:"Maximum unit price, or 'none' to remove the limit."`
	Notes    string   `help:"Free-text notes forwarded to the model."`
}

// Run executes the prefs set command.
func (c *SetPrefsCmd) Run(deps *Dependencies) error {
	prefs, err := deps.Preferences.LoadPreferences(deps.Ctx)
	if err != nil {
		return err
	}

	if c.Diet != "" {
		if c.Diet == "none" {
			prefs.Diet = whatfits.DietNone
		} else {
			prefs.Diet = whatfits.Diet(c.Diet)
		}
	}
	if c.Avoid != nil {
		prefs.AvoidIngredients = c.Avoid
	}
	if c.Allergen != nil {
		prefs.Allergens = c.Allergen
	}
	if c.Label != nil {
		prefs.PreferLabels = c.Label
	}
	if c.MaxPrice != "" {
		if c.MaxPrice == "none" {
			prefs.MaxUnitPrice = ""
		} else {
			prefs.MaxUnitPrice = c.MaxPrice
		}
	}
	if c.Notes != "" {
		prefs.Notes = c.Notes
	}

	if err := deps.Preferences.SavePreferences(deps.Ctx, prefs); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", whatfits.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Preferences saved")
	return nil
}

// ClearPrefsCmd resets the preferences record.
type ClearPrefsCmd struct{}

// Run executes the prefs clear command.
func (c *ClearPrefsCmd) Run(deps *Dependencies) error {
	if err := deps.Preferences.SavePreferences(deps.Ctx, &whatfits.Preferences{}); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "Preferences cleared")
	return nil
}
