// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// glossary_cmd.go - Financial term glossary for finiq CLI.
//
// Subcommands:
//   finiq glossary                 List all known terms
//   finiq glossary define <term>   Show a term's definition
//   finiq glossary search <query>  Search terms and definitions
//   finiq glossary category <cat>  List terms in a category
//   finiq glossary categories      List term categories
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finiq-ai/finiq-tui/internal/jargon"
)

// HandleGlossary handles the "glossary" command and exits on error.
func HandleGlossary(args Args) {
	if err := HandleGlossaryCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleGlossaryCommand dispatches glossary subcommands.
func HandleGlossaryCommand(args Args) error {
	glossary := jargon.NewGlossary(jargon.Terms())

	switch args.Subcommand {
	case "list", "":
		return glossaryList(glossary, args)
	case "define":
		return glossaryDefine(glossary, args)
	case "search":
		return glossarySearch(glossary, args)
	case "category":
		return glossaryCategory(glossary, args)
	case "categories":
		return glossaryCategories(args)
	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected one of: list, define, search, category, categories")
	}
}

func printTerm(t jargon.Term) {
	fmt.Printf("%s %s\n", TermStyle.Render(t.Term), MutedStyle.Render("("+string(t.Category)+")"))
	fmt.Println("  " + WrapText(t.Definition, GetTerminalWidth()-2))
	if len(t.Variations) > 1 {
		fmt.Printf("  %s", MutedStyle.Render("Also matches: "))
		for i, v := range t.Variations {
			if v == t.Term {
				continue
			}
			if i > 0 {
				fmt.Print(MutedStyle.Render(", "))
			}
			fmt.Print(MutedStyle.Render(v))
		}
		fmt.Println()
	}
}

func glossaryList(glossary *jargon.Glossary, args Args) error {
	terms := glossary.Terms()

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(terms)
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Glossary (%d terms)", len(terms))))
	for _, t := range terms {
		fmt.Printf("  %-28s %s\n", TermStyle.Render(t.Term), MutedStyle.Render(string(t.Category)))
	}
	fmt.Println(MutedStyle.Render("\nUse: finiq glossary define <term>"))
	return nil
}

func glossaryDefine(glossary *jargon.Glossary, args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("term", "finiq glossary define liquidity")
	}

	term, ok := glossary.Lookup(args.Query)
	if !ok {
		// Fall back to a fuzzy search before giving up
		if matches := glossary.Search(args.Query); len(matches) > 0 {
			fmt.Printf("%s\n\n", MutedStyle.Render("No exact match for "+args.Query+"; closest:"))
			printTerm(matches[0])
			return nil
		}
		return NewNotFoundError("term", args.Query)
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(term)
	}

	printTerm(term)
	return nil
}

func glossarySearch(glossary *jargon.Glossary, args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("query", "finiq glossary search risk")
	}

	matches := glossary.Search(args.Query)
	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Println(MutedStyle.Render("No terms match: " + args.Query))
		return nil
	}

	for _, t := range matches {
		printTerm(t)
		fmt.Println()
	}
	return nil
}

func glossaryCategory(glossary *jargon.Glossary, args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("category", "finiq glossary category investing")
	}

	terms := glossary.ByCategory(jargon.Category(args.Query))
	if len(terms) == 0 {
		return NewNotFoundError("category", args.Query)
	}

	fmt.Println(TitleStyle.Render(args.Query))
	for _, t := range terms {
		fmt.Printf("  %-28s %s\n", TermStyle.Render(t.Term), MutedStyle.Render(firstSentence(t.Definition)))
	}
	return nil
}

func glossaryCategories(args Args) error {
	cats := jargon.Categories()
	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cats)
	}
	for _, c := range cats {
		fmt.Println("  " + string(c))
	}
	return nil
}

// firstSentence truncates a definition at the first period for one-line listings.
func firstSentence(s string) string {
	for i, r := range s {
		if r == '.' {
			return s[:i+1]
		}
	}
	return s
}
