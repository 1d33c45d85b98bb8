package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/wippyai/winrt-runtime/catalog"
	"github.com/wippyai/winrt-runtime/invoke"
	"github.com/wippyai/winrt-runtime/winrt"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type tuiCmd struct{}

func (*tuiCmd) Name() string           { return "tui" }
func (*tuiCmd) Synopsis() string       { return "Browse catalog interfaces and evaluate type expressions." }
func (*tuiCmd) Usage() string          { return "winrt tui\n" }
func (*tuiCmd) SetFlags(*flag.FlagSet) {}

func (*tuiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "tui needs a terminal; use sig, iid or ifaces instead")
		return subcommands.ExitFailure
	}
	p := tea.NewProgram(newExplorer(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type explorerState int

const (
	stateSelectInterface explorerState = iota
	stateSelectMethod
	stateExpression
)

type explorer struct {
	ifaces   []*invoke.InterfaceSignature
	input    textinput.Model
	result   string
	err      error
	selected int
	method   int
	state    explorerState
}

func newExplorer() *explorer {
	ti := textinput.New()
	ti.Placeholder = "IAsyncOperation<IVector<String>>"
	ti.Prompt = "type: "
	ti.Width = 60
	return &explorer{
		ifaces: catalog.Interfaces(),
		input:  ti,
		state:  stateSelectInterface,
	}
}

func (m *explorer) Init() tea.Cmd { return nil }

func (m *explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateExpression {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.input.Blur()
			m.state = stateSelectInterface
			return m, nil
		case "enter":
			m.result, m.err = describeExpr(m.input.Value())
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.state == stateSelectInterface && m.selected > 0 {
			m.selected--
		} else if m.state == stateSelectMethod && m.method > 0 {
			m.method--
		}

	case "down", "j":
		if m.state == stateSelectInterface && m.selected < len(m.ifaces)-1 {
			m.selected++
		} else if m.state == stateSelectMethod && m.method < len(m.ifaces[m.selected].Methods)-1 {
			m.method++
		}

	case "enter", "right", "l":
		if m.state == stateSelectInterface && len(m.ifaces) > 0 {
			m.state = stateSelectMethod
			m.method = 0
		}

	case "esc", "left", "h":
		if m.state == stateSelectMethod {
			m.state = stateSelectInterface
		}

	case "/":
		m.state = stateExpression
		m.result, m.err = "", nil
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// describeExpr renders the signature, IID and layout of a type expression.
func describeExpr(expr string) (string, error) {
	t, err := parseType(expr)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "type       %v\n", t)
	if sig, err := guarded(func() string { return winrt.Signature(t) }); err == nil {
		fmt.Fprintf(&b, "signature  %s\n", sig)
	}
	if id, ok := winrt.IID(t); ok {
		fmt.Fprintf(&b, "iid        %s\n", id.Braced())
	}
	if id, ok := winrt.CompletedHandlerIID(t); ok {
		fmt.Fprintf(&b, "handler    %s\n", id.Braced())
	}
	if winrt.IsComposite(t) {
		fmt.Fprintf(&b, "storage    %d bytes\n", winrt.StorageSize(t))
	}
	return b.String(), nil
}

func (m *explorer) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("WinRT Explorer"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectInterface:
		for i, s := range m.ifaces {
			line := fmt.Sprintf("%s %s", nameStyle.Render(s.Name), typeStyle.Render(s.IID.Braced()))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + s.Name + " " + s.IID.Braced()))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter methods • / type expression • q quit"))

	case stateSelectMethod:
		s := m.ifaces[m.selected]
		fmt.Fprintf(&b, "%s\n\n", nameStyle.Render(s.Name))
		for i, meth := range s.Methods {
			line := fmt.Sprintf("%2d  %s", meth.Slot(), m.formatMethod(meth))
			if i == m.method {
				b.WriteString(selectedStyle.Render("> " + meth.String()))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		meth := s.Methods[m.method]
		b.WriteString("\n")
		b.WriteString(resultStyle.Render(fmt.Sprintf("frame %s", meth.Frame())))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/↓ select • esc back • q quit"))

	case stateExpression:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter evaluate • esc back • ctrl+c quit"))
	}

	return b.String()
}

func (m *explorer) formatMethod(meth *invoke.Method) string {
	var params []string
	for _, p := range meth.Params() {
		params = append(params, p.String())
	}
	return nameStyle.Render(meth.Name()) + "(" + typeStyle.Render(strings.Join(params, ", ")) + ")"
}
