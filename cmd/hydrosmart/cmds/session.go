package cmds

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hydrosmart/reporter/internal/capture"
	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/form"
	"github.com/hydrosmart/reporter/internal/types"
)

const sessionHelp = `Commands:
  photo PATH      select the photo to send
  describe TEXT   describe the water quality issue
  locate          fetch the current location again
  show            print the form
  submit          send the query
  quit            leave
`

var sessionLocation locationFlags

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Fill in the query form interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sessionLocation.set = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")

		d, err := newDeps(sessionLocation)
		if err != nil {
			return clierrors.ExitErrorWrap(types.ExitErrored, err)
		}

		return runSession(cmd.Context(), d.newForm(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	sessionCmd.Flags().Float64Var(&sessionLocation.latitude, "lat", 0, "latitude, skips location lookup")
	sessionCmd.Flags().Float64Var(&sessionLocation.longitude, "lng", 0, "longitude, skips location lookup")
	sessionCmd.MarkFlagsRequiredTogether("lat", "lng")

	rootCmd.AddCommand(sessionCmd)
}

// Snapshots waiting to be rendered, in delivery order
type snapshotQueue struct {
	ready   chan struct{}
	pending []form.Snapshot
	mu      sync.Mutex
}

func newSnapshotQueue() *snapshotQueue {
	return &snapshotQueue{ready: make(chan struct{}, 1)}
}

func (q *snapshotQueue) push(s form.Snapshot) {
	q.mu.Lock()
	q.pending = append(q.pending, s)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *snapshotQueue) drain() []form.Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Runs the form until quit or end of input. One goroutine renders changes as
// they are published, the other reads commands.
func runSession(ctx context.Context, f *form.Form, in io.Reader, out io.Writer) error {
	w := &lockedWriter{w: out}
	queue := newSnapshotQueue()
	unsubscribe := f.Subscribe(queue.push)
	defer unsubscribe()
	defer f.Close()

	inputDone := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var last form.Snapshot
		render := func() {
			for _, snap := range queue.drain() {
				// deliveries from different goroutines can overtake each other
				if snap.Version <= last.Version {
					continue
				}
				renderChanges(w, last, snap)
				last = snap
			}
		}

		for {
			select {
			case <-queue.ready:
				render()
			case <-inputDone:
				render()
				return nil
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer close(inputDone)

		fmt.Fprint(w, sessionHelp)
		f.Mount(ctx)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if quit := sessionCommand(ctx, f, w, scanner.Text()); quit {
				break
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		f.Wait()
		return nil
	})

	return g.Wait()
}

// Runs one input line and reports whether the session should end. Form
// errors reach the user through the banner.
func sessionCommand(ctx context.Context, f *form.Form, w io.Writer, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "":
	case "photo":
		if arg == "" {
			fmt.Fprintln(w, "usage: photo PATH")
			return false
		}
		img, err := capture.FromFile(ctx, arg)
		if err != nil {
			fmt.Fprintf(w, "cannot use %s: %v\n", arg, err)
			return false
		}
		f.SelectImage(ctx, img)
		// wait for the preview so `show` is complete
		f.Wait()
	case "describe":
		f.SetDescription(arg)
	case "locate":
		f.FetchLocation(ctx)
		f.Wait()
	case "show":
		renderSnapshot(w, f.Snapshot())
	case "submit":
		err := f.Submit(ctx)
		if errors.Is(err, form.ErrSubmitInProgress) {
			fmt.Fprintln(w, "Submitting...")
		}
		f.Wait()
	case "help":
		fmt.Fprint(w, sessionHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(w, "unknown command %q, try `help`\n", name)
	}

	return false
}
