package console

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// RunLocal puts stdin into raw mode for the duration of the console session
// and restores it on exit. Use Run directly for streams that are not a
// local terminal.
func RunLocal(ctx context.Context, c *Console) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Print("\r\n")
	}()

	return c.Run(ctx)
}
