package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"todo-backend/internal/domain"
)

// DefaultEditWindow is the quiet period after the last name or note edit
// before it is sent.
const DefaultEditWindow = 1500 * time.Millisecond

// Alert messages, one per failed action.
const (
	AlertFetchFailed  = "Failed to fetch todos"
	AlertCreateFailed = "Todo creation failed"
	AlertDeleteFailed = "Todo deletion failed"
	AlertUpdateFailed = "Todo update failed"
)

var (
	// ErrUnknownTodo is returned for an id not in the local list.
	ErrUnknownTodo = errors.New("todo not in local list")
	// ErrEmptyName is returned when a name edit or create has no text.
	ErrEmptyName = errors.New("todo name is empty")
	// ErrCreatePending is returned when deleting a todo whose create has not
	// been answered yet.
	ErrCreatePending = errors.New("todo is still being created")
)

// CommandState is the lifecycle of a mutation sent to the API.
type CommandState int

const (
	CommandPending CommandState = iota
	CommandCommitted
	CommandFailed
)

func (s CommandState) String() string {
	switch s {
	case CommandPending:
		return "pending"
	case CommandCommitted:
		return "committed"
	case CommandFailed:
		return "failed"
	default:
		return fmt.Sprintf("CommandState(%d)", int(s))
	}
}

// Command records one remote call issued by the controller.
type Command struct {
	ID     uint64
	Action string
	TodoID string
	State  CommandState
	Err    error
}

// AlertFunc is told about every failed action.
type AlertFunc func(message string, err error)

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithAlert sets the failure callback.
func WithAlert(alert AlertFunc) ControllerOption {
	return func(c *Controller) { c.alert = alert }
}

// WithScheduler replaces the timer source used for debounced edits.
func WithScheduler(s Scheduler) ControllerOption {
	return func(c *Controller) { c.scheduler = s }
}

// WithEditWindow changes the debounce window for name and note edits.
func WithEditWindow(d time.Duration) ControllerOption {
	return func(c *Controller) { c.window = d }
}

// WithNow replaces time.Now for due date calculation.
func WithNow(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// WithControllerLogger sets the logger.
func WithControllerLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithSendTimeout bounds debounced sends, which run without a caller context.
func WithSendTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.sendTimeout = d }
}

const maxCommandHistory = 64

// Controller holds the display list of todos. Mutations apply locally
// first, then call the backend; a failed call restores the last value the
// server accepted and raises an alert.
//
// A created todo is shown under a local id until the server answers. Edits
// made in that window are kept and sent against the stored id afterwards.
type Controller struct {
	backend     Backend
	alert       AlertFunc
	scheduler   Scheduler
	window      time.Duration
	now         func() time.Time
	logger      *zap.Logger
	sendTimeout time.Duration
	debouncer   *Debouncer

	mu           sync.Mutex
	todos        []domain.Todo
	committed    map[string]domain.Todo
	placeholders map[string]struct{}
	aliases      map[string]string
	commands     []*Command
	nextCommand  uint64
	nextLocalID  uint64
}

// NewController creates a controller driving backend.
func NewController(backend Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend:      backend,
		alert:        func(string, error) {},
		window:       DefaultEditWindow,
		now:          time.Now,
		logger:       zap.NewNop(),
		sendTimeout:  10 * time.Second,
		committed:    make(map[string]domain.Todo),
		placeholders: make(map[string]struct{}),
		aliases:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.debouncer = NewDebouncer(c.window, c.scheduler)
	return c
}

// Todos returns a copy of the display list.
func (c *Controller) Todos() []domain.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Todo(nil), c.todos...)
}

// Get returns the displayed todo with id. A local id keeps working after
// its create has been answered.
func (c *Controller) Get(todoID string) (domain.Todo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(c.resolve(todoID)); i >= 0 {
		return c.todos[i], true
	}
	return domain.Todo{}, false
}

// Commands returns the most recent commands, oldest first.
func (c *Controller) Commands() []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Command, len(c.commands))
	for i, cmd := range c.commands {
		out[i] = *cmd
	}
	return out
}

// HasPendingEdits reports whether a name or note edit is waiting to be sent.
func (c *Controller) HasPendingEdits(todoID string) bool {
	c.mu.Lock()
	todoID = c.resolve(todoID)
	c.mu.Unlock()
	return c.debouncer.Pending(nameKey(todoID)) || c.debouncer.Pending(noteKey(todoID))
}

// Flush sends every pending edit immediately.
func (c *Controller) Flush() {
	c.debouncer.Flush()
}

// Fetch replaces the display list with the server's.
func (c *Controller) Fetch(ctx context.Context) error {
	todos, err := c.backend.ListTodos(ctx)
	if err != nil {
		c.fail(AlertFetchFailed, err)
		return err
	}

	c.mu.Lock()
	c.todos = append([]domain.Todo(nil), todos...)
	c.committed = make(map[string]domain.Todo, len(todos))
	for _, t := range todos {
		c.committed[t.TodoID] = t
	}
	c.mu.Unlock()
	return nil
}

// Create appends a placeholder, due in seven days with an empty note, and
// swaps it for the stored todo once the server answers. Edits made to the
// placeholder meanwhile are laid over the stored todo and sent.
func (c *Controller) Create(ctx context.Context, name string) (domain.Todo, error) {
	if !domain.ValidName(name) {
		return domain.Todo{}, ErrEmptyName
	}

	c.mu.Lock()
	c.nextLocalID++
	placeholder := domain.Todo{
		TodoID:  fmt.Sprintf("local-%d", c.nextLocalID),
		Name:    name,
		DueDate: domain.DefaultDueDate(c.now()),
	}
	localID := placeholder.TodoID
	c.todos = append(c.todos, placeholder)
	c.placeholders[localID] = struct{}{}
	cmd := c.begin("create", localID)
	c.mu.Unlock()

	stored, err := c.backend.CreateTodo(ctx, placeholder.Name, placeholder.DueDate, placeholder.Note)

	c.mu.Lock()
	delete(c.placeholders, localID)
	i := c.indexOf(localID)
	if err != nil {
		if i >= 0 {
			c.removeAt(i)
		}
		c.debouncer.Cancel(nameKey(localID))
		c.debouncer.Cancel(noteKey(localID))
		c.finish(cmd, err)
		c.mu.Unlock()
		c.fail(AlertCreateFailed, err)
		return domain.Todo{}, err
	}

	id := stored.TodoID
	c.aliases[localID] = id
	c.committed[id] = stored
	cmd.TodoID = id
	c.finish(cmd, nil)

	var syncFull, syncNote bool
	if i >= 0 {
		shown := c.todos[i]
		merged := stored
		merged.Name, merged.Done, merged.Note = shown.Name, shown.Done, shown.Note
		c.todos[i] = merged

		c.debouncer.Rekey(nameKey(localID), nameKey(id))
		c.debouncer.Rekey(noteKey(localID), noteKey(id))
		syncFull = (merged.Name != stored.Name || merged.Done != stored.Done) && !c.debouncer.Pending(nameKey(id))
		syncNote = merged.Note != stored.Note && !c.debouncer.Pending(noteKey(id))
	}
	c.mu.Unlock()

	if syncFull {
		c.sendUpdate(id, "sync-create")
	}
	if syncNote {
		c.sendNote(id)
	}
	return stored, nil
}

// Delete removes the todo locally, then remotely. On failure it is put back
// where it was.
func (c *Controller) Delete(ctx context.Context, todoID string) error {
	c.mu.Lock()
	todoID = c.resolve(todoID)
	if _, ok := c.placeholders[todoID]; ok {
		c.mu.Unlock()
		return ErrCreatePending
	}
	i := c.indexOf(todoID)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownTodo
	}
	c.debouncer.Cancel(nameKey(todoID))
	c.debouncer.Cancel(noteKey(todoID))
	removed := c.todos[i]
	c.removeAt(i)
	cmd := c.begin("delete", todoID)
	c.mu.Unlock()

	err := c.backend.DeleteTodo(ctx, todoID)

	c.mu.Lock()
	if err != nil {
		restored := removed
		if last, ok := c.committed[todoID]; ok {
			restored = last
		}
		c.insertAt(min(i, len(c.todos)), restored)
		c.finish(cmd, err)
		c.mu.Unlock()
		c.fail(AlertDeleteFailed, err)
		return err
	}
	delete(c.committed, todoID)
	c.finish(cmd, nil)
	c.mu.Unlock()
	return nil
}

// ToggleDone flips done and sends a full update carrying the last committed
// name and due date. On a todo still being created the flip is only local
// and is sent once the create is answered.
func (c *Controller) ToggleDone(ctx context.Context, todoID string) error {
	c.mu.Lock()
	todoID = c.resolve(todoID)
	i := c.indexOf(todoID)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownTodo
	}
	c.todos[i].Done = !c.todos[i].Done
	if _, ok := c.placeholders[todoID]; ok {
		c.mu.Unlock()
		return nil
	}
	done := c.todos[i].Done
	base := c.committedOrDisplayed(i)
	cmd := c.begin("toggle", todoID)
	c.mu.Unlock()

	err := c.backend.UpdateTodo(ctx, todoID, base.Name, base.DueDate, done)

	c.mu.Lock()
	if err != nil {
		if j := c.indexOf(todoID); j >= 0 {
			c.todos[j].Done = base.Done
		}
		c.finish(cmd, err)
		c.mu.Unlock()
		c.fail(AlertUpdateFailed, err)
		return err
	}
	if last, ok := c.committed[todoID]; ok {
		last.Done = done
		c.committed[todoID] = last
	}
	c.finish(cmd, nil)
	c.mu.Unlock()
	return nil
}

// EditName updates the displayed name now and sends it after the edit
// window passes with no further name edits to the same todo.
func (c *Controller) EditName(todoID, name string) error {
	if !domain.ValidName(name) {
		return ErrEmptyName
	}

	c.mu.Lock()
	todoID = c.resolve(todoID)
	i := c.indexOf(todoID)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownTodo
	}
	c.todos[i].Name = name
	c.mu.Unlock()

	c.debouncer.Trigger(nameKey(todoID), func() { c.sendUpdate(todoID, "edit-name") })
	return nil
}

// EditNote updates the displayed note now and sends it after the edit
// window passes with no further note edits to the same todo.
func (c *Controller) EditNote(todoID, note string) error {
	c.mu.Lock()
	todoID = c.resolve(todoID)
	i := c.indexOf(todoID)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownTodo
	}
	c.todos[i].Note = note
	c.mu.Unlock()

	c.debouncer.Trigger(noteKey(todoID), func() { c.sendNote(todoID) })
	return nil
}

// sendUpdate sends the displayed name, due date and done of todoID. On
// failure the fields revert to the last committed values unless a newer
// name edit is pending.
func (c *Controller) sendUpdate(todoID, action string) {
	c.mu.Lock()
	todoID = c.resolve(todoID)
	if _, ok := c.placeholders[todoID]; ok {
		// Create merges and sends the edit when it is answered.
		c.mu.Unlock()
		return
	}
	i := c.indexOf(todoID)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	sent := c.todos[i]
	cmd := c.begin(action, todoID)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.sendTimeout)
	defer cancel()
	err := c.backend.UpdateTodo(ctx, todoID, sent.Name, sent.DueDate, sent.Done)

	c.mu.Lock()
	last, known := c.committed[todoID]
	if err != nil {
		if j := c.indexOf(todoID); j >= 0 && known {
			if !c.debouncer.Pending(nameKey(todoID)) {
				c.todos[j].Name = last.Name
			}
			if c.todos[j].Done == sent.Done {
				c.todos[j].Done = last.Done
			}
		}
		c.finish(cmd, err)
		c.mu.Unlock()
		c.fail(AlertUpdateFailed, err)
		return
	}
	if known {
		last.Name, last.DueDate, last.Done = sent.Name, sent.DueDate, sent.Done
		c.committed[todoID] = last
	}
	c.finish(cmd, nil)
	c.mu.Unlock()
}

func (c *Controller) sendNote(todoID string) {
	c.mu.Lock()
	todoID = c.resolve(todoID)
	if _, ok := c.placeholders[todoID]; ok {
		c.mu.Unlock()
		return
	}
	i := c.indexOf(todoID)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	note := c.todos[i].Note
	cmd := c.begin("edit-note", todoID)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.sendTimeout)
	defer cancel()
	err := c.backend.UpdateTodoNote(ctx, todoID, note)

	c.mu.Lock()
	last, known := c.committed[todoID]
	if err != nil {
		if j := c.indexOf(todoID); j >= 0 && known && !c.debouncer.Pending(noteKey(todoID)) {
			c.todos[j].Note = last.Note
		}
		c.finish(cmd, err)
		c.mu.Unlock()
		c.fail(AlertUpdateFailed, err)
		return
	}
	if known {
		last.Note = note
		c.committed[todoID] = last
	}
	c.finish(cmd, nil)
	c.mu.Unlock()
}

// fail logs and alerts. Must be called without c.mu held.
func (c *Controller) fail(message string, err error) {
	c.logger.Warn(message, zap.Error(err))
	c.alert(message, err)
}

func (c *Controller) begin(action, todoID string) *Command {
	c.nextCommand++
	cmd := &Command{ID: c.nextCommand, Action: action, TodoID: todoID, State: CommandPending}
	c.commands = append(c.commands, cmd)
	if len(c.commands) > maxCommandHistory {
		c.commands = c.commands[len(c.commands)-maxCommandHistory:]
	}
	return cmd
}

func (c *Controller) finish(cmd *Command, err error) {
	if err != nil {
		cmd.State = CommandFailed
		cmd.Err = err
		return
	}
	cmd.State = CommandCommitted
}

// resolve maps a placeholder id to its stored id once the create is answered.
func (c *Controller) resolve(todoID string) string {
	if id, ok := c.aliases[todoID]; ok {
		return id
	}
	return todoID
}

func (c *Controller) committedOrDisplayed(i int) domain.Todo {
	if last, ok := c.committed[c.todos[i].TodoID]; ok {
		return last
	}
	return c.todos[i]
}

func (c *Controller) indexOf(todoID string) int {
	for i, t := range c.todos {
		if t.TodoID == todoID {
			return i
		}
	}
	return -1
}

func (c *Controller) removeAt(i int) {
	c.todos = append(c.todos[:i], c.todos[i+1:]...)
}

func (c *Controller) insertAt(i int, t domain.Todo) {
	c.todos = append(c.todos, domain.Todo{})
	copy(c.todos[i+1:], c.todos[i:])
	c.todos[i] = t
}

func nameKey(todoID string) string { return todoID + "/name" }
func noteKey(todoID string) string { return todoID + "/note" }
