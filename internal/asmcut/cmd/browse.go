package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"asmcut/internal/asm"
	"asmcut/internal/asmcut/styles"
	"asmcut/internal/ui/colorize"
)

type viewMode int

const (
	viewFunctions viewMode = iota
	viewCode
)

type functionItem struct {
	record     asm.FunctionRecord
	demangled  string
	filterTerm string // Pre-computed filter value
}

func (i functionItem) FilterValue() string { return i.filterTerm }

// Custom item delegate for the function list
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(functionItem)
	if !ok {
		return
	}

	var rangeStyle lipgloss.Style
	indicator := " "
	if index == m.Index() {
		indicator = ">"
		rangeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")) // Purple for selected range
	} else {
		rangeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Gray for normal range
	}
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // Orange for names

	name := nameStyle.Render(i.record.Name)
	if i.demangled != "" {
		name += lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render("  " + i.demangled)
	}
	fmt.Fprintf(w, " %s  %s  %s",
		indicator,
		rangeStyle.Render(fmt.Sprintf("%6d-%-6d", i.record.StartLine, i.record.EndLine)),
		name)
}

type browseModel struct {
	functions list.Model
	code      viewport.Model
	mode      viewMode
	path      string
	source    *asm.Source
	hl        colorize.Highlighter
	width     int
	height    int
}

func newBrowseModel(path, text string, hl colorize.Highlighter) browseModel {
	src := asm.NewSource(text)
	records := asm.Catalog(src)

	items := make([]list.Item, 0, len(records))
	for _, r := range records {
		d := demangled(r.Name)
		items = append(items, functionItem{
			record:     r,
			demangled:  d,
			filterTerm: strings.TrimSpace(r.Name + " " + d),
		})
	}

	functions := list.New(items, itemDelegate{}, 80, 24)
	functions.SetShowStatusBar(false)
	functions.SetFilteringEnabled(true)
	functions.Title = fmt.Sprintf("%s (%d functions)", filepath.Base(path), len(records))
	functions.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	functions.SetShowHelp(true)

	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	return browseModel{
		functions: functions,
		code:      vp,
		mode:      viewFunctions,
		path:      path,
		source:    src,
		hl:        hl,
		width:     80,
		height:    24,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.functions.SetWidth(msg.Width)
		m.functions.SetHeight(msg.Height - 2)
		m.code.SetWidth(msg.Width)
		m.code.SetHeight(msg.Height - 2)

	case tea.KeyMsg:
		// Let the list handle keys while its filter is being typed
		if m.mode == viewFunctions && m.functions.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.mode == viewFunctions {
				if item, ok := m.functions.SelectedItem().(functionItem); ok {
					m.showFunction(item.record.Name)
					m.mode = viewCode
				}
				return m, nil
			}
		case "esc", "backspace", "tab":
			if m.mode == viewCode {
				m.mode = viewFunctions
				return m, nil
			}
		}
	}

	switch m.mode {
	case viewCode:
		m.code, cmd = m.code.Update(msg)
	default:
		m.functions, cmd = m.functions.Update(msg)
	}
	return m, cmd
}

// showFunction fills the code view with the resolver's view of name, which
// may differ from the catalog range when .size directives are missing.
func (m *browseModel) showFunction(name string) {
	r, err := asm.Resolve(m.source, name)
	if err != nil {
		m.code.SetContent(fmt.Sprintf("; %s: %v", name, err))
		m.code.GotoTop()
		return
	}
	code := m.source.Join(r.Start, r.End)

	var b strings.Builder
	header := functionMarkdown(name, r, "")
	// The code block is rendered separately with the assembly highlighter.
	header = header[:strings.Index(header, "```asm")]
	rendered, err := styles.GetMarkdownRenderer(m.width-2, m.hl.NoColor).Render(header)
	if err != nil {
		rendered = header
	}
	b.WriteString(strings.TrimSuffix(rendered, "\n"))
	b.WriteString("\n\n")
	b.WriteString(m.hl.Numbered(code, r.Start))

	refs := asm.SortedCallReferences(code)
	if len(refs) > 0 {
		b.WriteString("\n; references: ")
		b.WriteString(strings.Join(refs, ", "))
		b.WriteString("\n")
	}
	m.code.SetContent(b.String())
	m.code.GotoTop()
}

func (m browseModel) View() string {
	var content, menu string
	switch m.mode {
	case viewCode:
		content = m.code.View()
		menu = " ↑/↓: scroll • Esc: functions • Q: quit "
	default:
		content = m.functions.View()
		menu = " Enter: view function • /: filter • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

var browseCmd = &cobra.Command{
	Use:   "browse [file]",
	Short: "Browse the functions of a module interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readModule(cmd.Context(), cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		program := tea.NewProgram(
			newBrowseModel(args[0], text, highlighter()),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}
