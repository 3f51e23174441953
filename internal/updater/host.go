package updater

// Decision is the operator's answer to the consent prompt.
type Decision int

const (
	Declined Decision = iota
	Accepted
)

func (d Decision) String() string {
	if d == Accepted {
		return "accepted"
	}
	return "declined"
}

// NoticeKind classifies a status notice.
type NoticeKind int

const (
	// NoticeInfo is non-blocking.
	NoticeInfo NoticeKind = iota
	// NoticeError may block until dismissed.
	NoticeError
)

// PromptOptions describes a yes/no consent dialog.
type PromptOptions struct {
	Title        string
	Message      string
	AcceptLabel  string
	DeclineLabel string
}

// Host is the window and tray surface the updater talks to.
type Host interface {
	// ShowWindow brings the main window forward so the prompt is visible.
	ShowWindow()
	// Prompt blocks until the operator answers.
	Prompt(opts PromptOptions) (Decision, error)
	Notify(kind NoticeKind, message string)
	// Progress is called as installer bytes arrive. total is -1 when unknown.
	Progress(downloaded, total int64)
	// Exit terminates the running instance.
	Exit()
}
