package archive

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/idelchi/packcrypt/internal/manifest"
)

// Action describes what happened to a single file.
type Action int

const (
	// ActionEncrypted means the file was encrypted with its own key.
	ActionEncrypted Action = iota
	// ActionDecrypted means the file was decrypted with its entry key.
	ActionDecrypted
	// ActionCopied means the file was stored in cleartext.
	ActionCopied
	// ActionKept means a cleartext file was left in place because input and output coincide.
	ActionKept
	// ActionSkipped means the entry could not be processed and was left out.
	ActionSkipped
	// ActionMissing means the manifest listed a file that is not in the archive.
	ActionMissing
)

func (a Action) String() string {
	switch a {
	case ActionEncrypted:
		return "Encrypted"
	case ActionDecrypted:
		return "Decrypted"
	case ActionCopied:
		return "Copied"
	case ActionKept:
		return "Kept"
	case ActionSkipped:
		return "Skipped"
	case ActionMissing:
		return "Missing"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Result represents the outcome of processing a single file.
type Result struct {
	// Rel is the slash-separated path relative to the pack root
	Rel string

	// Action taken for the file
	Action Action

	// Entry recorded in the manifest, only meaningful when encrypting
	Entry manifest.Entry

	// Output file size in bytes
	Size int64

	// Warning explains a skipped entry
	Warning string
}

// Summary aggregates the results of a run.
type Summary struct {
	Scanned   int
	Encrypted int
	Decrypted int
	Copied    int
	Skipped   int
	Missing   int
	Size      int64
	Duration  time.Duration
}

func (s *Summary) add(res Result) {
	switch res.Action {
	case ActionEncrypted:
		s.Encrypted++
	case ActionDecrypted:
		s.Decrypted++
	case ActionCopied, ActionKept:
		s.Copied++
	case ActionSkipped:
		s.Skipped++
	case ActionMissing:
		s.Missing++
	}

	s.Size += res.Size
}

// printer consumes results on a single goroutine so progress lines never interleave.
type printer struct {
	results chan Result
	done    chan struct{}
	entries []manifest.Entry
	summary Summary
}

func startPrinter(stdout, stderr io.Writer, quiet bool, capacity int, dry bool) *printer {
	p := &printer{
		results: make(chan Result, capacity),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(p.done)

		for res := range p.results {
			p.summary.add(res)
			p.entries = append(p.entries, res.Entry)

			switch {
			case res.Warning != "":
				fmt.Fprintf(stderr, "Warning: %s %q: %s\n", res.Action, res.Rel, res.Warning)
			case quiet, res.Action == ActionMissing, res.Action == ActionKept:
			case dry:
				fmt.Fprintf(stdout, "Would be %s %q\n", strings.ToLower(res.Action.String()), res.Rel)
			default:
				fmt.Fprintf(stdout, "%s %q\n", res.Action, res.Rel)
			}
		}
	}()

	return p
}

// finish closes the channel and waits for the printer to drain it.
func (p *printer) finish() {
	close(p.results)

	<-p.done
}
