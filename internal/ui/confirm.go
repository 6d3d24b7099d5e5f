package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmDanger prompts on w with a yes/no question styled for destructive
// actions and reads the answer from r. Returns true for yes.
func ConfirmDanger(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", StyleError.Render("⚠ "+prompt))
	line, _ := bufio.NewReader(r).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
