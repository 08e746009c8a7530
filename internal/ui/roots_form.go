package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"repotabs/internal/config"
	"repotabs/internal/logging"
)

// WorkspaceRootsFormResult contains the result of the edit operation
type WorkspaceRootsFormResult struct {
	Cancelled bool
	Error     error
	Roots     []string
}

// WorkspaceRootsForm is a Bubble Tea component for editing the workspace
// roots that discovery scans
type WorkspaceRootsForm struct {
	Completed bool
	form      *huh.Form
	input     string
	result    WorkspaceRootsFormResult
}

// NewWorkspaceRootsForm creates the form preloaded with the current roots,
// one per line
func NewWorkspaceRootsForm(currentRoots []string) *WorkspaceRootsForm {
	wf := &WorkspaceRootsForm{
		input: strings.Join(currentRoots, "\n"),
	}

	wf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Workspace roots").
				Description("Folders scanned for repositories, one per line").
				Value(&wf.input).
				CharLimit(2000),
		),
	)

	return wf
}

func (wf *WorkspaceRootsForm) Init() tea.Cmd {
	return wf.form.Init()
}

func (wf *WorkspaceRootsForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" || keyMsg.String() == "ctrl+c" {
			wf.result.Cancelled = true
			wf.Completed = true
			return wf, nil
		}
	}

	form, cmd := wf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		wf.form = f
	}

	if wf.form.State == huh.StateCompleted {
		wf.Completed = true
		if err := wf.saveRoots(); err != nil {
			logging.Logger.Error("Failed to save workspace roots", "error", err)
			wf.result.Error = err
		}
		return wf, nil
	}

	return wf, cmd
}

func (wf *WorkspaceRootsForm) View() string {
	if wf.form != nil {
		return wf.form.View()
	}
	return ""
}

// Result returns the form result
func (wf *WorkspaceRootsForm) Result() WorkspaceRootsFormResult {
	return wf.result
}

// saveRoots writes the edited roots back to the settings file
func (wf *WorkspaceRootsForm) saveRoots() error {
	var roots []string
	for _, line := range strings.Split(wf.input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			roots = append(roots, line)
		}
	}
	wf.result.Roots = roots

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	settings.WorkspaceRoots = roots
	return config.SaveSettings(settings)
}
