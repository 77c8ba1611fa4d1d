package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompt asks msg and reads a single-line response from stdin.
func Prompt(msg string) string {
	return PromptReader(msg, os.Stdin)
}

// PromptReader is Prompt reading from r, useful for tests.
func PromptReader(msg string, r io.Reader) string {
	fmt.Printf("%s: ", msg)
	br := bufio.NewReader(r)
	line, _ := br.ReadString('\n')
	return strings.TrimSpace(line)
}
