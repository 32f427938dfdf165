// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finiq-ai/finiq-tui/internal/commands"
	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/model"
	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := history.NewStore(history.NewMemoryKV(), nil)
	store.LoadAll("tester")
	return New(styles.NewTheme(), Deps{
		Store:    store,
		Glossary: jargon.NewGlossary(jargon.Terms()),
		UserID:   "tester",
	})
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.State() != StateReady {
		t.Errorf("initial state = %v, want StateReady", m.State())
	}
	if len(m.Messages()) != 0 {
		t.Errorf("fresh model has %d messages, want 0", len(m.Messages()))
	}
	if m.overlay != OverlayNone {
		t.Error("fresh model should have no overlay")
	}
}

func TestNoticeIsNotPersisted(t *testing.T) {
	m := newTestModel(t)
	m.notice("just a notice")
	m.appendMessage(model.NewUserMessage("real message"))

	if got := len(m.Messages()); got != 2 {
		t.Fatalf("transcript length = %d, want 2", got)
	}
	persisted := m.persistable()
	if len(persisted) != 1 || persisted[0].Role != model.RoleUser {
		t.Errorf("persistable = %v, want only the user message", persisted)
	}
}

func TestSendMessagePersistsBeforeReply(t *testing.T) {
	m := newTestModel(t)

	m2, cmd := m.sendMessage("what is an index fund?")
	if cmd == nil {
		t.Fatal("sendMessage should return a command")
	}
	if m2.State() != StateThinking {
		t.Errorf("state = %v, want StateThinking", m2.State())
	}

	// The user message must be on disk before the mentor answers.
	sess, ok := m2.store.CurrentSession()
	if !ok {
		t.Fatal("sendMessage should have created a session")
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Content != "what is an index fund?" {
		t.Errorf("persisted messages = %v, want the question", sess.Messages)
	}
}

func TestMentorReplyAppendsAndPersists(t *testing.T) {
	m := newTestModel(t)
	m2, _ := m.sendMessage("explain diversification")

	reply := model.NewAssistantMessage("Diversification spreads risk.")
	m3, _ := m2.handleMentorReply(MentorReplyMsg{Reply: reply})

	if m3.State() != StateReady {
		t.Errorf("state after reply = %v, want StateReady", m3.State())
	}
	sess, _ := m3.store.CurrentSession()
	if len(sess.Messages) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(sess.Messages))
	}
	if sess.Messages[1].Role != model.RoleAssistant {
		t.Error("second persisted message should be the reply")
	}
}

func TestMentorErrorShowsNotice(t *testing.T) {
	m := newTestModel(t)
	m2, _ := m.sendMessage("hello")

	m3, _ := m2.handleMentorError(MentorErrorMsg{Err: errors.New("boom")})
	if m3.State() != StateReady {
		t.Errorf("state after error = %v, want StateReady", m3.State())
	}
	msgs := m3.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != model.RoleSystem || !strings.Contains(last.Content, "boom") {
		t.Errorf("last message = %v, want system notice with the error", last)
	}
}

func TestMentorErrorCanceled(t *testing.T) {
	m := newTestModel(t)
	m2, _ := m.sendMessage("hello")

	m3, _ := m2.handleMentorError(MentorErrorMsg{Err: errors.New("context canceled"), Canceled: true})
	msgs := m3.Messages()
	last := msgs[len(msgs)-1]
	if !strings.Contains(last.Content, "canceled") {
		t.Errorf("canceled request should produce a cancel notice, got %q", last.Content)
	}
}

func TestRunCommandUnknown(t *testing.T) {
	m := newTestModel(t)
	m2, cmd := m.runCommand("/bogus")
	if cmd != nil {
		t.Error("unknown command should not produce a command")
	}
	msgs := m2.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0].Content, "Unknown command") {
		t.Errorf("expected unknown-command notice, got %v", msgs)
	}
}

func TestRunCommandDispatches(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.runCommand("/help")
	if cmd == nil {
		t.Fatal("/help should produce a command")
	}
	if _, ok := cmd().(commands.ShowHelpMsg); !ok {
		t.Error("/help command should emit ShowHelpMsg")
	}
}

func TestHandleCommandMessages(t *testing.T) {
	m := newTestModel(t)
	id := m.store.CreateSession("tester", "budget talk")
	m.store.UpdateSession(id, []model.Message{model.NewUserMessage("budgets?")})

	// Rename flows through the store.
	if _, handled := m.handleCommandMsg(commands.RenameSessionMsg{Title: "money basics"}); !handled {
		t.Fatal("RenameSessionMsg should be handled")
	}
	sess, _ := m.store.LoadSession(id)
	if sess.Title != "money basics" {
		t.Errorf("title after rename = %q", sess.Title)
	}

	// Delete clears the transcript when it hits the current session.
	if _, handled := m.handleCommandMsg(commands.DeleteSessionMsg{ID: id}); !handled {
		t.Fatal("DeleteSessionMsg should be handled")
	}
	if _, ok := m.store.LoadSession(id); ok {
		t.Error("session should be gone after delete")
	}

	// Help opens the overlay.
	m.handleCommandMsg(commands.ShowHelpMsg{})
	if m.overlay != OverlayHelp {
		t.Error("ShowHelpMsg should open the help overlay")
	}

	// Unrelated messages are not handled.
	if _, handled := m.handleCommandMsg(struct{}{}); handled {
		t.Error("unknown message types should not be handled")
	}
}

func TestSessionLoadedReplacesTranscript(t *testing.T) {
	m := newTestModel(t)
	sess := model.NewSession("old chat")
	sess.Messages = []model.Message{
		model.NewUserMessage("q"),
		model.NewAssistantMessage("a"),
	}

	m.handleCommandMsg(commands.SessionLoadedMsg{Session: sess})

	msgs := m.Messages()
	// Two restored messages plus the resume notice.
	if len(msgs) != 3 {
		t.Fatalf("transcript length = %d, want 3", len(msgs))
	}
	if msgs[0].Content != "q" || msgs[1].Content != "a" {
		t.Error("restored messages should come first")
	}
}

func TestCompletionLifecycle(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("/he")
	m.refreshCompletions()
	if !m.completionState.Visible {
		t.Fatal("typing a slash prefix should surface completions")
	}

	m.acceptCompletion()
	if got := m.input.Value(); !strings.HasPrefix(got, "/help") {
		t.Errorf("accepted input = %q, want /help prefix", got)
	}
	if m.completionState.Visible {
		t.Error("accepting should clear the completion state")
	}

	m.input.SetValue("plain text")
	m.refreshCompletions()
	if m.completionState.Visible {
		t.Error("plain text should not surface completions")
	}
}

func TestWindowSizeRendersTranscript(t *testing.T) {
	m := newTestModel(t)
	m.appendMessage(model.NewUserMessage("resize me"))

	m2, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m2.width != 100 || m2.height != 40 {
		t.Errorf("size = %dx%d, want 100x40", m2.width, m2.height)
	}
	if m2.viewport.Width != 100 {
		t.Errorf("viewport width = %d, want 100", m2.viewport.Width)
	}
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t)
	m.SetSize(100, 40)
	m.appendMessage(model.NewAssistantMessage("Diversification spreads risk."))

	view := m.View()
	if view == "" {
		t.Fatal("view should not be empty")
	}
	if !strings.Contains(view, "finiq") {
		t.Error("view should include the header brand")
	}

	m.overlay = OverlayGlossary
	if !strings.Contains(m.View(), "Glossary") {
		t.Error("glossary overlay should render its title")
	}
}
