package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/ganttr/internal/planner"
	"github.com/sadopc/ganttr/internal/store"
)

type usersModel struct {
	state  *planner.State
	log    *zap.Logger
	width  int
	height int

	users  []store.User
	cursor int

	formActive bool
	form       *huh.Form
	formName   *string
	formAvatar *string
}

func newUsersModel(st *planner.State, log *zap.Logger) usersModel {
	name, avatar := "", ""
	return usersModel{
		state:      st,
		log:        log,
		formName:   &name,
		formAvatar: &avatar,
	}
}

func (u *usersModel) setSize(w, h int) {
	u.width = w
	u.height = h
}

type usersDataMsg struct {
	users []store.User
}

func (u usersModel) refresh() tea.Cmd {
	return func() tea.Msg {
		users, err := u.state.Users()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return usersDataMsg{users: users}
	}
}

func (u usersModel) update(msg tea.Msg) (usersModel, tea.Cmd) {
	if u.formActive && u.form != nil {
		return u.updateForm(msg)
	}

	switch msg := msg.(type) {
	case usersDataMsg:
		u.users = msg.users
		if u.cursor >= len(u.users) {
			u.cursor = max(0, len(u.users)-1)
		}
		return u, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if u.cursor > 0 {
				u.cursor--
			}
		case key.Matches(msg, keys.Down):
			if u.cursor < len(u.users)-1 {
				u.cursor++
			}
		case key.Matches(msg, keys.New):
			return u.showForm()
		case key.Matches(msg, keys.Delete):
			if len(u.users) > 0 {
				return u, u.remove(u.users[u.cursor])
			}
		}
	}
	return u, nil
}

func (u usersModel) remove(user store.User) tea.Cmd {
	if err := u.state.RemoveUser(user.ID); err != nil {
		u.log.Warn("remove user failed", zap.String("user_id", user.ID), zap.Error(err))
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	return tea.Batch(u.refresh(), statusCmd("Removed "+user.Name, false), dataChanged)
}

func (u usersModel) showForm() (usersModel, tea.Cmd) {
	*u.formName = ""
	*u.formAvatar = ""

	u.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(u.formName).Validate(required("name")),
			huh.NewInput().Title("Avatar URL (optional)").Value(u.formAvatar),
		),
	).WithShowHelp(true).WithShowErrors(true)

	u.formActive = true
	return u, u.form.Init()
}

func (u usersModel) updateForm(msg tea.Msg) (usersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			u.formActive = false
			u.form = nil
			return u, nil
		}
	}

	form, cmd := u.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		u.form = f
	}

	if u.form.State == huh.StateCompleted {
		u.formActive = false
		u.form = nil
		created, err := u.state.AddUser(store.User{
			Name:   *u.formName,
			Avatar: strings.TrimSpace(*u.formAvatar),
		})
		if err != nil {
			return u, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return u, tea.Batch(u.refresh(), statusCmd("Added "+created.Name, false))
	}

	return u, cmd
}

// assignedCount counts the active project's tasks assigned to id.
func (u usersModel) assignedCount(id string) int {
	p := u.state.Current()
	if p == nil {
		return 0
	}
	n := 0
	for _, t := range p.Tasks {
		for _, a := range t.Assignees {
			if a == id {
				n++
				break
			}
		}
	}
	return n
}

func (u usersModel) view() string {
	w := u.width - 4

	if u.formActive && u.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New User"), "", u.form.View()),
		)
	}

	title := titleStyle.Render("Users")
	if len(u.users) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No users yet. Press n to add one."),
		))
	}

	rows := []string{title, ""}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %-8s %s", "Name", "Tasks", "Avatar")))
	for i, user := range u.users {
		cursor := "  "
		style := normalItemStyle
		if i == u.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		avatar := user.Avatar
		if avatar == "" {
			avatar = "-"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s %-8d", cursor, truncate(user.Name, 24), u.assignedCount(user.ID)))+
			" "+mutedStyle.Render(truncate(avatar, max(w-40, 8))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  d: remove (assignments are kept)"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
