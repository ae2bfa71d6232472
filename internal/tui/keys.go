package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key actions.
const (
	actionQuit       = "quit"
	actionNextPage   = "next-page"
	actionSearch     = "search"
	actionNewEntry   = "new-entry"
	actionNewTheory  = "new-theory"
	actionReload     = "reload"
	actionToggleView = "toggle-view"
	actionPrevType   = "prev-type"
	actionNextType   = "next-type"
	actionSubmit     = "submit"
	actionClose      = "close"
	actionNextField  = "next-field"
	actionPrevField  = "prev-field"
)

// Scopes.
const (
	scopeForm   = "screen:form"
	scopeSearch = "search"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if b.Description != "" && scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// scopeMatch treats "page:*" as every page scope and "*" as everything
// except forms and search, which own their keys.
func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		switch {
		case s == scope:
			return true
		case s == "*" && scope != scopeForm && scope != scopeSearch:
			return true
		case strings.HasSuffix(s, ":*") && strings.HasPrefix(scope, strings.TrimSuffix(s, "*")):
			return true
		}
	}
	return false
}

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"q"}, Action: actionQuit, Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"1", "2", "3", "4"}, Action: "switch-page", Description: "pages", Scopes: []string{"*"}},
		{Keys: []string{"tab"}, Action: actionNextPage, Description: "next page", Scopes: []string{"*"}},
		{Keys: []string{"/"}, Action: actionSearch, Description: "search", Scopes: []string{"page:wiki", "page:reporting"}},
		{Keys: []string{"n"}, Action: actionNewEntry, Description: "new entry", Scopes: []string{"page:*"}},
		{Keys: []string{"t"}, Action: actionNewTheory, Description: "new theory", Scopes: []string{"page:wiki"}},
		{Keys: []string{"r"}, Action: actionReload, Description: "reload", Scopes: []string{"page:*"}},
		{Keys: []string{"v"}, Action: actionToggleView, Description: "cards/table", Scopes: []string{"page:wiki"}},
		{Keys: []string{"["}, Action: actionPrevType, Description: "prev type", Scopes: []string{"page:wiki", "page:instances"}},
		{Keys: []string{"]"}, Action: actionNextType, Description: "next type", Scopes: []string{"page:wiki", "page:instances"}},
		{Keys: []string{"up", "k"}, Action: "scroll", Description: "scroll", Scopes: []string{"page:*"}},
		{Keys: []string{"ctrl+s"}, Action: actionSubmit, Description: "submit", Scopes: []string{scopeForm}},
		{Keys: []string{"tab"}, Action: actionNextField, Description: "next field", Scopes: []string{scopeForm}},
		{Keys: []string{"shift+tab"}, Action: actionPrevField, Description: "prev field", Scopes: []string{scopeForm}},
		{Keys: []string{"esc"}, Action: actionClose, Description: "close", Scopes: []string{scopeForm, scopeSearch}},
		{Keys: []string{"enter"}, Action: "apply", Description: "apply", Scopes: []string{scopeSearch}},
	}
}
