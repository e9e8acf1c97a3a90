// Package console runs the interactive chat loop on a line-based terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/gemchat/usecase"
)

// ResetCommand starts a new conversation from the terminal
const ResetCommand = "/reset"

const (
	userPrompt = "\nYou: "
	botPrefix  = "\nChatbot: "

	// maxLineSize allows long pasted prompts
	maxLineSize = 1024 * 1024
)

// Console reads user lines from in and renders loop output to out
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	loop   *usecase.Loop
	logger *zap.Logger
}

// New creates a console bound to the given streams
func New(in io.Reader, out io.Writer, loop *usecase.Loop, logger *zap.Logger) *Console {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Console{
		in:     scanner,
		out:    out,
		loop:   loop,
		logger: logger,
	}
}

// Run prompts until the user exits or the input ends. ctx is checked before
// each prompt and bounds each remote call; it does not interrupt a pending read.
// Remote failures are printed and the loop continues.
func (c *Console) Run(ctx context.Context) error {
	session, err := c.loop.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start conversation: %w", err)
	}

	fmt.Fprintln(c.out, usecase.WelcomeMessage)
	fmt.Fprintln(c.out, usecase.ExitHintMessage)
	fmt.Fprintf(c.out, "Type '%s' to start a new conversation.\n", ResetCommand)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, userPrompt)

		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			// End of input behaves like an exit command
			fmt.Fprintf(c.out, "\n%s\n", usecase.FarewellMessage)
			return nil
		}

		input := strings.TrimSpace(c.in.Text())

		var out usecase.Output
		if strings.EqualFold(input, ResetCommand) {
			session, out = c.loop.Reset(ctx, session)
		} else {
			session, out = c.loop.Step(ctx, session, input)
		}

		switch out.Action {
		case usecase.ActionExit:
			fmt.Fprintf(c.out, "\n%s\n", out.Text)
			return nil
		case usecase.ActionReset:
			fmt.Fprintf(c.out, "\n%s\n", out.Text)
		default:
			fmt.Fprint(c.out, botPrefix)
			fmt.Fprintln(c.out, out.Text)
		}
	}
}
