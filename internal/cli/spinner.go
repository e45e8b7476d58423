package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// spinner animates a message on one terminal line until it is stopped or
// its context ends.
type spinner struct {
	msg  string
	out  io.Writer
	ctx  context.Context
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// startSpinner starts animating msg on stderr.
func startSpinner(ctx context.Context, msg string) *spinner {
	return startSpinnerTo(ctx, os.Stderr, msg)
}

func startSpinnerTo(ctx context.Context, out io.Writer, msg string) *spinner {
	s := &spinner{msg: msg, out: out, ctx: ctx, quit: make(chan struct{})}
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer s.wg.Done()
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			return
		case <-tick.C:
			r := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(string(r)), styleDim.Render(s.msg))
		}
	}
}

// stop ends the animation and blanks the line. Later calls do nothing.
func (s *spinner) stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
	})
}

// fail stops the spinner and prints msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}
