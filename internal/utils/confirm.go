// Package utils provides small terminal helpers shared by the commands.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirm prompts with msg and expects y/n on stdin. Returns true for yes.
// When stdin is not a terminal (CI, pipes) it returns false so destructive
// paths never proceed silently.
func Confirm(msg string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	return ConfirmReader(msg, os.Stdin)
}

// ConfirmReader is Confirm reading from r, useful for tests.
func ConfirmReader(msg string, r io.Reader) bool {
	fmt.Printf("%s [y/N]: ", msg)
	br := bufio.NewReader(r)
	line, _ := br.ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}
