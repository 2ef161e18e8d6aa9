package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// PromptTimeout bounds how long the shutdown prompt waits for an answer.
const PromptTimeout = 30 * time.Second

type runningChecker interface {
	Running() bool
}

// shutdownPrompt decides when an interrupted serve command exits. An interrupt while the
// server is running on a terminal asks for confirmation; anything else exits at once.
type shutdownPrompt struct {
	server      runningChecker
	interactive bool
	answers     <-chan string
	out         io.Writer
	timeout     time.Duration
}

// wait blocks until the process should exit or ctx is done.
func (p *shutdownPrompt) wait(ctx context.Context, sigs <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			if sig != os.Interrupt || !p.interactive || !p.server.Running() {
				return
			}
			if p.confirm(ctx, sigs) {
				return
			}
			fmt.Fprintln(p.out, "Server keeps running.")
		}
	}
}

// confirm asks whether to stop. No answer within the timeout means no; a second signal
// means yes.
func (p *shutdownPrompt) confirm(ctx context.Context, sigs <-chan os.Signal) bool {
	fmt.Fprint(p.out, "Server is still running. Stop and exit? [y/N] ")

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return true
	case <-sigs:
		fmt.Fprintln(p.out)
		return true
	case answer, ok := <-p.answers:
		if !ok {
			// Input is closed; later prompts can only time out.
			p.answers = nil
			fmt.Fprintln(p.out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	case <-timer.C:
		fmt.Fprintln(p.out)
		return false
	}
}

// readLines feeds the lines of r into the returned channel until EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
