package session

import (
	"errors"
	"fmt"
)

// Stage is a step of the boot sequence.
type Stage int

const (
	StageCheck Stage = iota
	StageSetup
	StageLogin
	StageDesktop
)

func (s Stage) String() string {
	switch s {
	case StageCheck:
		return "check"
	case StageSetup:
		return "setup"
	case StageLogin:
		return "login"
	case StageDesktop:
		return "desktop"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// InstallLog is printed line by line while setup "installs" the system.
var InstallLog = []string{
	"Initializing Open Door OS Installer...",
	"Mounting root filesystem /dev/sda1...",
	"Probing hardware configuration...",
	"Detected display: terminal",
	"Unpacking core system utilities...",
	"Configuring opendoor window manager...",
	"Generating user locales...",
	"Installing default packages: neofetch, firefox, code...",
	"Setting up network interfaces...",
	"Applying system themes...",
	"Creating user home directory...",
	"Finalizing installation...",
	"System ready.",
}

// Boot walks check -> setup -> login -> desktop. Setup is skipped when an
// account exists; a successful setup always continues to login.
type Boot struct {
	store *Store
	stage Stage
	user  *User
}

// NewBoot starts at StageCheck.
func NewBoot(store *Store) *Boot {
	return &Boot{store: store}
}

// Stage returns the current stage.
func (b *Boot) Stage() Stage { return b.stage }

// User returns the loaded account, or nil before check or setup.
func (b *Boot) User() *User { return b.user }

// Check looks for an existing account and moves to login or setup.
func (b *Boot) Check() (Stage, error) {
	if b.stage != StageCheck {
		return b.stage, fmt.Errorf("check called in stage %s", b.stage)
	}
	u, err := b.store.Load()
	switch {
	case errors.Is(err, ErrNoUser):
		b.stage = StageSetup
	case err != nil:
		return b.stage, err
	default:
		b.user = u
		b.stage = StageLogin
	}
	return b.stage, nil
}

// Setup creates the account and moves to login.
func (b *Boot) Setup(username, password string) error {
	if b.stage != StageSetup {
		return fmt.Errorf("setup called in stage %s", b.stage)
	}
	u, err := b.store.Create(username, password)
	if err != nil {
		return err
	}
	b.user = u
	b.stage = StageLogin
	return nil
}

// Login verifies password and moves to the desktop. A wrong password keeps
// the boot at login.
func (b *Boot) Login(password string) error {
	if b.stage != StageLogin || b.user == nil {
		return fmt.Errorf("login called in stage %s", b.stage)
	}
	if err := b.user.Verify(password); err != nil {
		return err
	}
	b.stage = StageDesktop
	return nil
}

// Skip jumps straight to the desktop as a guest, for --no-login.
func (b *Boot) Skip() {
	if b.user == nil {
		b.user = &User{Username: "guest"}
	}
	b.stage = StageDesktop
}
