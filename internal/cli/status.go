// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - System status display for finiq CLI.
//
// Command: status
// Aliases: s
//
// Shows the effective mentor backend configuration, history and index
// state, and profile inventory in one screen.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finiq-ai/finiq-tui/internal/config"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/mentor"
	"github.com/finiq-ai/finiq-tui/internal/profile"
)

// statusReport is the JSON shape of "finiq status --json".
type statusReport struct {
	Version        string `json:"version"`
	Model          string `json:"model"`
	APIConfigured  bool   `json:"api_configured"`
	KeyFingerprint string `json:"key_fingerprint,omitempty"`
	HistoryDir     string `json:"history_dir"`
	SessionCount   int    `json:"session_count"`
	ProfileCount   int    `json:"profile_count"`
	GlossaryTerms  int    `json:"glossary_terms"`
	IndexSessions  int    `json:"index_sessions"`
	IndexUsers     int    `json:"index_users"`
	LastIndexed    string `json:"last_indexed,omitempty"`
}

// HandleStatus handles the "status" command and exits on error.
func HandleStatus(args Args) {
	if err := HandleStatusCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleStatusCommand prints the system status.
func HandleStatusCommand(args Args) error {
	cfg := config.Global()
	client := mentor.NewClientFromConfig(cfg.Mentor)

	report := statusReport{
		Version:       Version,
		Model:         client.GetModel(),
		APIConfigured: client.IsConfigured(),
		GlossaryTerms: len(jargon.Terms()),
	}
	if report.APIConfigured {
		report.KeyFingerprint = client.KeyFingerprint()
	}

	if dir, err := cfg.HistoryDir(); err == nil {
		report.HistoryDir = dir
		if store, err := openStore(args); err == nil {
			report.SessionCount = len(store.Sessions())
		}
	}

	if path, err := profile.DefaultPath(); err == nil {
		if manager, err := profile.NewManager(path); err == nil {
			report.ProfileCount = manager.Len()
		}
	}

	// Index stats are advisory; a broken index must not break status
	if idx, err := openIndex(); err == nil {
		stats := idx.Stats()
		report.IndexSessions = stats.SessionCount
		report.IndexUsers = stats.UserCount
		if !stats.LastIndexed.IsZero() {
			report.LastIndexed = stats.LastIndexed.Format("2006-01-02T15:04:05Z07:00")
		}
		idx.Close()
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Println(TitleStyle.Render("finiq status"))

	fmt.Println(SectionStyle.Render("Mentor"))
	if report.APIConfigured {
		fmt.Printf("%s %s\n", LabelStyle.Render("API key:"), SuccessStyle.Render("configured")+" "+MutedStyle.Render(report.KeyFingerprint))
	} else {
		fmt.Printf("%s %s\n", LabelStyle.Render("API key:"), ErrorStyle.Render("missing"))
		fmt.Println(MutedStyle.Render("  Set FINIQ_API_KEY or run: finiq config set mentor.api_key <key>"))
	}
	fmt.Printf("%s %s\n", LabelStyle.Render("Model:"), ValueStyle.Render(report.Model))
	fmt.Printf("%s %s\n", LabelStyle.Render("Endpoint:"), MutedStyle.Render(cfg.Mentor.BaseURL))

	fmt.Println(SectionStyle.Render("History"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Directory:"), MutedStyle.Render(report.HistoryDir))
	fmt.Printf("%s %d\n", LabelStyle.Render("Sessions:"), report.SessionCount)
	fmt.Printf("%s %d\n", LabelStyle.Render("Profiles:"), report.ProfileCount)

	fmt.Println(SectionStyle.Render("Index"))
	fmt.Printf("%s %d sessions, %d profiles\n", LabelStyle.Render("Indexed:"), report.IndexSessions, report.IndexUsers)
	if report.LastIndexed == "" {
		fmt.Printf("%s %s\n", LabelStyle.Render("Last run:"), MutedStyle.Render("never (run: finiq index rebuild)"))
	} else {
		fmt.Printf("%s %s\n", LabelStyle.Render("Last run:"), report.LastIndexed)
	}

	fmt.Println(SectionStyle.Render("Glossary"))
	fmt.Printf("%s %d terms, %d categories\n", LabelStyle.Render("Terms:"), report.GlossaryTerms, len(jargon.Categories()))

	return nil
}
