package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/photo-studio-mcp/internal/imaging"
)

// DefaultMaxHistory bounds the number of results a session keeps.
const DefaultMaxHistory = 50

// ErrNothingToUndo and ErrNothingToRedo are returned when the cursor is
// already at the start or end of the log.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// step is an applied command together with the image it produced.
type step struct {
	cmd    Command
	result *imaging.Buffer
}

// Session is the editing history of one image. It is safe for concurrent
// use; commands on the same session are applied one at a time.
type Session struct {
	ID     string
	Opened time.Time

	loader *imaging.Loader
	log    logrus.FieldLogger
	limit  int

	mu   sync.Mutex
	base *imaging.Buffer
	// steps[:cursor] is the active history, steps[cursor:] can be redone.
	steps  []step
	cursor int
}

// NewSession starts a session on b. loader resolves Composite backgrounds and
// may be nil.
func NewSession(id string, b *imaging.Buffer, loader *imaging.Loader) *Session {
	return &Session{
		ID:     id,
		Opened: time.Now(),
		loader: loader,
		log:    logrus.StandardLogger(),
		limit:  DefaultMaxHistory,
		base:   b,
	}
}

// Current returns the image at the cursor.
func (s *Session) Current() *imaging.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Session) current() *imaging.Buffer {
	if s.cursor == 0 {
		return s.base
	}
	return s.steps[s.cursor-1].result
}

// Apply runs cmd on the current image and records it. Any commands that
// could have been redone are discarded. On error the history is unchanged.
func (s *Session) Apply(ctx context.Context, cmd Command) (*imaging.Buffer, error) {
	return s.ApplyBatch(ctx, []Command{cmd})
}

// ApplyBatch runs cmds in order and records them as separate steps. The
// batch is all or nothing: if any command fails none of them is recorded and
// the error names the index and op of the failing command.
func (s *Session) ApplyBatch(ctx context.Context, cmds []Command) (*imaging.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	cur := s.current()
	results := make([]*imaging.Buffer, len(cmds))
	for i, cmd := range cmds {
		out, err := Apply(ctx, s.loader, cur, cmd)
		if err != nil {
			s.log.WithFields(logrus.Fields{"session": s.ID, "op": opName(cmd), "index": i}).WithError(err).Warn("editor command failed")
			if len(cmds) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("command %d (%s): %w", i, opName(cmd), err)
		}
		results[i] = out
		cur = out
	}

	for i, cmd := range cmds {
		s.record(cmd, results[i])
	}

	s.log.WithFields(logrus.Fields{
		"session":  s.ID,
		"commands": len(cmds),
		"position": s.cursor,
		"duration": time.Since(start),
	}).Debug("editor commands applied")
	return cur, nil
}

// record appends a step at the cursor, dropping the redo tail. Once the log
// is full the oldest step is folded into the base.
func (s *Session) record(cmd Command, out *imaging.Buffer) {
	s.steps = append(s.steps[:s.cursor], step{cmd: cmd, result: out})
	s.cursor++

	if s.limit > 0 && len(s.steps) > s.limit {
		drop := len(s.steps) - s.limit
		s.base = s.steps[drop-1].result
		s.steps = append([]step(nil), s.steps[drop:]...)
		s.cursor -= drop
	}
}

// Undo moves the cursor back one step and returns the image there.
func (s *Session) Undo() (*imaging.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == 0 {
		return nil, ErrNothingToUndo
	}
	s.cursor--
	return s.current(), nil
}

// Redo moves the cursor forward one step and returns the image there.
func (s *Session) Redo() (*imaging.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == len(s.steps) {
		return nil, ErrNothingToRedo
	}
	s.cursor++
	return s.current(), nil
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor > 0
}

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor < len(s.steps)
}

// Log returns the commands that produced the current image, oldest first.
func (s *Session) Log() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmds := make([]Command, s.cursor)
	for i := range cmds {
		cmds[i] = s.steps[i].cmd
	}
	return cmds
}

// State summarises a session for clients.
type State struct {
	ID       string   `json:"id"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Position int      `json:"position"`
	Length   int      `json:"length"`
	CanUndo  bool     `json:"can_undo"`
	CanRedo  bool     `json:"can_redo"`
	Ops      []string `json:"ops"`
}

// State returns a snapshot of the session's history.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	ops := make([]string, len(s.steps))
	for i, st := range s.steps {
		ops[i] = st.cmd.Op()
	}
	return State{
		ID:       s.ID,
		Width:    cur.Width(),
		Height:   cur.Height(),
		Position: s.cursor,
		Length:   len(s.steps),
		CanUndo:  s.cursor > 0,
		CanRedo:  s.cursor < len(s.steps),
		Ops:      ops,
	}
}

func opName(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.Op()
}
