//go:build !linux

package terminal

// resetTerminalMode has no portable cooked-mode fallback outside linux
func resetTerminalMode() {}
