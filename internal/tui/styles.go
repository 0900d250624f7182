/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	errorFg   = lipgloss.Color("#EF4444")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(errorFg)
)

// Inks of the selection chrome.
const (
	inkSelection = "#3B82F6"
	inkActive    = "#F59E0B"
	inkAnchor    = "#EF4444"
	inkMarquee   = "#9CA3AF"
)

type keyMap struct {
	SelectAll key.Binding
	Next      key.Binding
	Cancel    key.Binding
	Commit    key.Binding
	Reset     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next shape")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel/clear")),
		Commit:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "commit")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "nudge up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "nudge down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "nudge left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "nudge right")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SelectAll, k.Next, k.Cancel, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SelectAll, k.Next, k.Cancel, k.Commit, k.Reset},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Help, k.Quit},
	}
}
