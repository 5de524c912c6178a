package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui flag value. It implements pflag.Value so cobra
// rejects unknown modes while parsing.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func (m *uiMode) String() string {
	if *m == "" {
		return string(uiModeAuto)
	}
	return string(*m)
}

func (m *uiMode) Set(value string) error {
	switch v := uiMode(strings.TrimSpace(strings.ToLower(value))); v {
	case "", uiModeAuto:
		*m = uiModeAuto
	case uiModeOn, uiModeOff:
		*m = v
	default:
		return fmt.Errorf("expected auto|on|off, got %q", value)
	}
	return nil
}

func (*uiMode) Type() string { return "mode" }

// interactive reports whether the progress view should take over stdout.
func (m uiMode) interactive() bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
