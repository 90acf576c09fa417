package apps

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mode selects the persona a responder answers in.
type Mode string

const (
	ModeTerminal Mode = "terminal"
	ModeChat     Mode = "chat"
)

// Request is one prompt sent to a Responder.
type Request struct {
	Mode    Mode
	Prompt  string
	History []string
	User    string
}

// Responder answers free-form terminal commands and chat prompts. Calls run
// off the event loop; failures are shown inside the view.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
}

// OfflineResponder answers from canned text without any network access.
type OfflineResponder struct {
	Now func() time.Time
}

func (r OfflineResponder) Respond(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(req.Prompt)
	switch req.Mode {
	case ModeTerminal:
		name := strings.Fields(prompt)
		if len(name) == 0 {
			return "", nil
		}
		return fmt.Sprintf("bash: %s: command not found", name[0]), nil
	case ModeChat:
		return chatReply(prompt), nil
	default:
		return "", fmt.Errorf("unsupported responder mode %q", req.Mode)
	}
}

func chatReply(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case lower == "":
		return "Ask me anything."
	case hasWord(lower, "hello", "hi", "hey"):
		return "Hello! I'm the Open Door assistant. I run offline, so my answers are short."
	case strings.Contains(lower, "window"), strings.Contains(lower, "tile"):
		return "Windows tile master/stack: the first on the left, the rest stacked on the right. Float a window to drag it freely."
	case strings.HasSuffix(lower, "?"):
		return "Good question. I can't reach the network from here, but the Terminal's `help` lists what works offline."
	default:
		return "Noted: \"" + prompt + "\"."
	}
}

func hasWord(s string, words ...string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

const neofetch = `        ___        %s@opendoor
       /   \       -----------------
      | [ ] |      OS: Open Door OS 1.0.0
      |  o  |      Shell: odsh
      |_____|      WM: opendoor (master/stack)`

// runBuiltin executes the offline terminal commands. ok is false when cmd
// is not a builtin.
func runBuiltin(cmd string, env Env) (out string, launchKind string, ok bool) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "", "", true
	}
	args := fields[1:]
	switch fields[0] {
	case "help":
		return strings.Join([]string{
			"Available commands:",
			"  help        show this help",
			"  clear       clear the screen",
			"  echo TEXT   print TEXT",
			"  whoami      print the current user",
			"  pwd         print the working directory",
			"  ls          list files",
			"  date        print the date",
			"  uname       print system information",
			"  neofetch    system summary",
			"  open APP    launch an application",
			"Anything else is sent to the assistant.",
		}, "\n"), "", true
	case "echo":
		return strings.Join(args, " "), "", true
	case "whoami":
		return env.user(), "", true
	case "pwd":
		return "/home/" + env.user(), "", true
	case "ls":
		return "Desktop  Documents  Downloads  Music  Pictures  notes.txt", "", true
	case "date":
		return env.now().Format("Mon Jan 2 15:04:05 MST 2006"), "", true
	case "uname":
		if len(args) > 0 && args[0] == "-a" {
			return "OpenDoor opendoor 1.0.0 #1 SMP x86_64 GNU/Linux", "", true
		}
		return "OpenDoor", "", true
	case "neofetch":
		return fmt.Sprintf(neofetch, env.user()), "", true
	case "open":
		if len(args) == 0 {
			return "usage: open APP", "", true
		}
		return "", args[0], true
	default:
		return "", "", false
	}
}
