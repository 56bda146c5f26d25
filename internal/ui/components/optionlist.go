package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yichenw/quizdeck/internal/ui/theme"
)

// OptionList presents a question's labeled options. Space marks the
// option under the cursor: in single mode it moves the radio pick, in
// multi mode it toggles a checkbox. Nothing is selected until the user
// marks something.
type OptionList struct {
	Options []string // labeled, e.g. "A. some text"
	Multi   bool

	Cursor  int
	checked map[int]bool

	// After grading the list renders outcomes instead of a cursor.
	graded     bool
	userSet    map[string]bool
	correctSet map[string]bool
}

// NewOptionList creates an option list for the given labeled options.
func NewOptionList(options []string, multi bool) OptionList {
	return OptionList{
		Options: options,
		Multi:   multi,
		checked: make(map[int]bool),
	}
}

// Update handles cursor movement and toggling.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.graded {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "space", " ":
		if o.Multi {
			o.checked[o.Cursor] = !o.checked[o.Cursor]
		} else {
			// Radio semantics: picking one clears any earlier pick.
			for i := range o.checked {
				delete(o.checked, i)
			}
			o.checked[o.Cursor] = true
		}
	}

	return o, nil
}

// Selection returns the marked option labels: the checked set in multi
// mode, the single radio pick otherwise. No marks yields nil.
func (o OptionList) Selection() []string {
	var sel []string
	for i, opt := range o.Options {
		if o.checked[i] {
			sel = append(sel, label(opt))
		}
	}
	return sel
}

// MarkGraded switches the list to outcome rendering. userAnswer and
// correctAnswer are canonical label strings.
func (o *OptionList) MarkGraded(userAnswer, correctAnswer string) {
	o.graded = true
	o.userSet = labelSet(userAnswer)
	o.correctSet = labelSet(correctAnswer)
}

// View renders the options.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		if o.graded {
			b.WriteString(o.renderGraded(opt))
		} else {
			b.WriteString(o.renderSelectable(i, opt))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (o OptionList) renderSelectable(i int, opt string) string {
	cursor := "  "
	if i == o.Cursor {
		cursor = "▸ "
	}

	line := cursor
	if o.Multi {
		box := "[ ] "
		if o.checked[i] {
			box = "[x] "
		}
		line += box
	} else {
		radio := "( ) "
		if o.checked[i] {
			radio = "(•) "
		}
		line += radio
	}
	line += opt

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == o.Cursor {
		style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	} else if o.checked[i] {
		style = lipgloss.NewStyle().Foreground(theme.Secondary)
	}
	return style.Render(line)
}

// renderGraded marks each option the way the answer review does:
// correct picks green, the correct answer the user missed in blue,
// wrong picks red, everything else dimmed.
func (o OptionList) renderGraded(opt string) string {
	l := label(opt)
	inCorrect := o.correctSet[l]
	inUser := o.userSet[l]

	switch {
	case inCorrect && inUser:
		return theme.Correct.Render("  " + opt + "  (your choice)")
	case inCorrect:
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
			Render("  " + opt + "  (correct answer)")
	case inUser:
		return theme.Incorrect.Render("  " + opt + "  (your choice)")
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + opt)
	}
}

// label extracts an option's letter label (its first character).
func label(opt string) string {
	if opt == "" {
		return ""
	}
	return string(opt[0])
}

// labelSet expands a canonical label string into a membership set.
func labelSet(labels string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, r := range labels {
		set[string(r)] = true
	}
	return set
}
