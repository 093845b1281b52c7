package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"babynames/internal/console"
	"babynames/internal/engine"
	"babynames/internal/models"

	"github.com/labstack/gommon/color"
	"github.com/labstack/gommon/log"
	"github.com/valyala/bytebufferpool"
)

type State int

const (
	StateNoGender State = iota
	StateGender
	StateDone
)

func (s State) String() string {
	switch s {
	case StateNoGender:
		return "no_gender"
	case StateGender:
		return "gender"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Single-letter commands, matched case-insensitively.
// Gender choices go through models.ParseGender.
const (
	cmdNext   = "N"
	cmdBack   = "B"
	cmdChange = "C"
	cmdQuit   = "Q"
)

const (
	menuNoGender = "Choose a gender: [M]ale, [F]emale, or [Q]uit."
	menuGender   = "Enter numbers to like names (e.g. 1 4 7), [N]ext batch, [B]ack, [C]hange gender, or [Q]uit."
	promptMarker = "> "
)

type Options struct {
	BatchSize int
	// NoRepeat keeps names already shown for the current gender out of later batches.
	NoRepeat bool
	Logger   *log.Logger
}

// Session is the menu state machine. It owns the batch history and the
// liked set; the Index is shared read-only.
type Session struct {
	idx     *engine.Index
	sampler *engine.Sampler
	out     io.Writer
	pal     *color.Color
	opts    Options

	state   State
	gender  models.Gender
	history []models.Batch
	pos     int
	shown   map[string]struct{}
	liked   *LikedSet
}

func New(idx *engine.Index, sampler *engine.Sampler, out io.Writer, pal *color.Color, opts Options) *Session {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.Logger == nil {
		opts.Logger = log.New("session")
		opts.Logger.SetLevel(log.OFF)
	}
	if pal == nil {
		pal = console.Plain()
	}
	return &Session{
		idx:     idx,
		sampler: sampler,
		out:     out,
		pal:     pal,
		opts:    opts,
		state:   StateNoGender,
		liked:   NewLikedSet(),
	}
}

func (s *Session) State() State            { return s.state }
func (s *Session) Gender() models.Gender   { return s.gender }
func (s *Session) Liked() *LikedSet        { return s.liked }
func (s *Session) History() []models.Batch { return s.history }
func (s *Session) Position() int           { return s.pos }

// Current returns the batch on screen, if a gender is selected.
func (s *Session) Current() (models.Batch, bool) {
	if s.state != StateGender || len(s.history) == 0 {
		return models.Batch{}, false
	}
	return s.history[s.pos], true
}

// Run reads one command per line until quit, EOF, or ctx is cancelled.
// Cancellation ends the session like quit.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	readCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines, errc := readLines(readCtx, in)
	for s.state != StateDone {
		s.printMenu()
		select {
		case <-ctx.Done():
			s.opts.Logger.Debugf("session cancelled: %v", ctx.Err())
			s.state = StateDone
		case line, ok := <-lines:
			if !ok {
				s.state = StateDone
				if err := <-errc; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				continue
			}
			s.Handle(line)
		}
	}
	return nil
}

// readLines feeds lines from in until EOF or ctx is done. Lines have no
// length limit. The reader goroutine may stay blocked on in after
// cancellation; it exits when in is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReader(in)
		for {
			line, err := br.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					errc <- nil
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				errc <- err
				return
			}
		}
	}()
	return lines, errc
}

// Handle applies one line of input and returns the resulting state.
func (s *Session) Handle(line string) State {
	input := strings.TrimSpace(line)
	cmd := strings.ToUpper(input)
	prev := s.state

	if cmd == cmdQuit {
		s.state = StateDone
	} else {
		switch s.state {
		case StateNoGender:
			s.handleNoGender(cmd)
		case StateGender:
			s.handleGender(input, cmd)
		}
	}

	if prev != s.state {
		s.opts.Logger.Debugf("session %s -> %s", prev, s.state)
	}
	return s.state
}

func (s *Session) handleNoGender(cmd string) {
	g, ok := models.ParseGender(cmd)
	if !ok {
		s.notice("Invalid choice. Please enter M, F, or Q.")
		return
	}
	if s.idx.PoolSize(g) == 0 {
		s.notice(fmt.Sprintf("No names available for gender %s.", g))
		return
	}

	s.gender = g
	s.shown = make(map[string]struct{})
	batch, ok := s.draw()
	if !ok {
		s.notice(fmt.Sprintf("No names available for gender %s.", g))
		return
	}
	s.history = []models.Batch{batch}
	s.pos = 0
	s.state = StateGender
	s.printBatch()
}

func (s *Session) handleGender(input, cmd string) {
	switch cmd {
	case cmdChange:
		s.history = nil
		s.shown = nil
		s.pos = 0
		s.gender = ""
		s.state = StateNoGender
	case cmdNext:
		s.next()
	case cmdBack:
		s.back()
	case "":
		s.notice("Please enter a command or the numbers of names you like.")
	default:
		s.like(input)
	}
}

func (s *Session) next() {
	if s.pos+1 < len(s.history) {
		s.pos++
		s.printBatch()
		return
	}
	batch, ok := s.draw()
	if !ok {
		s.notice(engine.ErrPoolExhausted.Error() + ".")
		return
	}
	s.history = append(s.history, batch)
	s.pos = len(s.history) - 1
	s.printBatch()
}

func (s *Session) back() {
	if s.pos == 0 {
		s.notice("Already at the first batch.")
		return
	}
	s.pos--
	s.printBatch()
}

// like applies a whitespace-separated list of 1-based positions. A single
// non-numeric token rejects the whole line.
func (s *Session) like(input string) {
	tokens := strings.Fields(input)
	positions := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			s.notice("Invalid input. Enter numbers separated by spaces (e.g. 1 4 7), or N, B, C, Q.")
			return
		}
		positions = append(positions, n)
	}

	batch := s.history[s.pos]
	for _, n := range positions {
		if n < 1 || n > len(batch.Names) {
			s.notice(fmt.Sprintf("Invalid number: %d (choose 1-%d).", n, len(batch.Names)))
			continue
		}
		key := models.NameKey{Name: batch.Names[n-1], Gender: batch.Gender}
		if s.liked.Add(key) {
			s.say(s.pal.Green(fmt.Sprintf("Liked %s.", key.Name)))
		} else {
			s.notice(fmt.Sprintf("%s is already in your liked list.", key.Name))
		}
	}
}

func (s *Session) draw() (models.Batch, bool) {
	var exclude map[string]struct{}
	if s.opts.NoRepeat {
		exclude = s.shown
	}
	names := s.sampler.Sample(s.idx.Pool[s.gender], s.opts.BatchSize, exclude)
	if len(names) == 0 {
		return models.Batch{}, false
	}
	if s.opts.NoRepeat {
		for _, n := range names {
			s.shown[n] = struct{}{}
		}
	}
	return models.Batch{Gender: s.gender, Names: names}, true
}

// --- OUTPUT ---

func (s *Session) printMenu() {
	switch s.state {
	case StateNoGender:
		s.say(s.pal.Cyan(menuNoGender))
	case StateGender:
		s.say(s.pal.Cyan(menuGender))
	default:
		return
	}
	fmt.Fprint(s.out, promptMarker)
}

func (s *Session) printBatch() {
	batch := s.history[s.pos]
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "\n%s\n", s.pal.Bold(fmt.Sprintf("Batch %d (%s):", s.pos+1, batch.Gender)))
	for i, name := range batch.Names {
		marker := ""
		if s.liked.Has(models.NameKey{Name: name, Gender: batch.Gender}) {
			marker = " " + s.pal.Yellow("*")
		}
		fmt.Fprintf(buf, "%3d. %s%s\n", i+1, name, marker)
	}
	_, _ = s.out.Write(buf.B)
}

func (s *Session) notice(msg string) { s.say(s.pal.Red(msg)) }

func (s *Session) say(msg string) { fmt.Fprintln(s.out, msg) }
