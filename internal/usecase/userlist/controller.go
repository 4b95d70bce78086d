package userlist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	domain "user-crud-console/internal/domain/user"
	apperrors "user-crud-console/pkg/errors"
)

// Controller owns the in-memory user collection and the single form session.
// At most one remote call is in flight at a time; any state-changing operation
// triggered meanwhile fails with errors.ErrBusy.
type Controller struct {
	remote   Remote
	notifier Notifier
	log      *zap.Logger
	validate *validator.Validate

	mu     sync.Mutex
	users  []domain.User
	form   *fsm.FSM
	target *domain.User  // record under edit, nil in create mode
	fields domain.Fields // form working copy
	busy   bool
}

// New creates a Controller with an empty collection and a hidden form.
// A nil notifier discards notices.
func New(remote Remote, notifier Notifier, log *zap.Logger) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Controller{
		remote:   remote,
		notifier: notifier,
		log:      log,
		validate: validator.New(),
		form:     newFormFSM(),
	}
}

// Load replaces the collection with the remote one, keeping the remote order.
// On failure the collection is left as it was.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}

	c.log.Info("loading users")
	users, err := c.remote.ListUsers(ctx)

	c.mu.Lock()
	defer c.end()

	if err != nil {
		c.log.Error("failed to load users", zap.Error(err))
		return fmt.Errorf("failed to load users: %w", err)
	}

	c.users = slices.Clone(users)
	c.log.Info("users loaded", zap.Int("count", len(c.users)))
	return nil
}

// OpenCreate opens an empty form for a new record.
func (c *Controller) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return apperrors.ErrBusy
	}
	if err := fire(c.form, eventOpenCreate); err != nil {
		return err
	}
	c.target = nil
	c.fields = domain.Fields{}
	return nil
}

// OpenEdit opens the form on a value copy of record's fields.
func (c *Controller) OpenEdit(record domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return apperrors.ErrBusy
	}
	if err := fire(c.form, eventOpenEdit); err != nil {
		return err
	}
	c.target = &record
	c.fields = record.Fields()
	return nil
}

// Close discards the form session.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return apperrors.ErrBusy
	}
	return c.discardForm()
}

// UpdateField replaces one field of the working copy. No validation happens here.
func (c *Controller) UpdateField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return apperrors.ErrBusy
	}
	if !c.visible() {
		return apperrors.ErrNoSession
	}
	if !c.fields.Set(field, value) {
		return apperrors.NewValidationError(field, "unknown field")
	}
	return nil
}

// Save submits the form. Empty fields raise a notice and nothing is sent.
// In edit mode the record with the target's identifier is replaced by the
// returned record; in create mode the returned record is appended. On success
// the form is discarded, on failure form and collection stay untouched.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return apperrors.ErrBusy
	}
	if !c.visible() {
		c.mu.Unlock()
		return apperrors.ErrNoSession
	}
	if err := c.validate.Struct(c.fields); err != nil {
		c.mu.Unlock()
		c.log.Warn("save rejected", zap.Strings("missing", missingFields(err)))
		c.notifier.Notify(apperrors.ErrFieldsRequired.Message)
		return apperrors.ErrFieldsRequired
	}

	fields := c.fields
	var target *domain.User
	if c.target != nil {
		t := *c.target
		target = &t
	}
	var clientID int64
	if target == nil {
		clientID = nextClientID(c.users)
	}
	c.busy = true
	c.mu.Unlock()

	if target != nil {
		return c.saveEdit(ctx, *target, fields)
	}
	return c.saveCreate(ctx, fields.WithID(clientID))
}

func (c *Controller) saveEdit(ctx context.Context, target domain.User, fields domain.Fields) error {
	c.log.Info("updating user", zap.Int64("id", target.ID))
	updated, err := c.remote.UpdateUser(ctx, target.ID, fields)

	c.mu.Lock()
	defer c.end()

	if err != nil {
		c.log.Error("failed to update user", zap.Int64("id", target.ID), zap.Error(err))
		return fmt.Errorf("failed to update user %d: %w", target.ID, err)
	}

	if i := c.indexOf(target.ID); i >= 0 {
		c.users[i] = *updated
	}
	return c.discardForm()
}

func (c *Controller) saveCreate(ctx context.Context, u domain.User) error {
	c.log.Info("creating user", zap.Int64("client_id", u.ID), zap.String("name", u.Name))
	created, err := c.remote.CreateUser(ctx, u)

	c.mu.Lock()
	defer c.end()

	if err != nil {
		c.log.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	c.users = append(c.users, *created)
	c.log.Info("user created", zap.Int64("id", created.ID))
	return c.discardForm()
}

// Delete removes the record with the given identifier, remotely and then locally.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.begin(); err != nil {
		return err
	}

	c.log.Info("deleting user", zap.Int64("id", id))
	err := c.remote.DeleteUser(ctx, id)

	c.mu.Lock()
	defer c.end()

	if err != nil {
		c.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	if i := c.indexOf(id); i >= 0 {
		c.users = slices.Delete(c.users, i, i+1)
	}
	return nil
}

// Users returns a copy of the collection.
func (c *Controller) Users() []domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.users)
}

// Find returns a copy of the record with the given identifier.
func (c *Controller) Find(id int64) (domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.users[i], true
	}
	return domain.User{}, false
}

// Session returns a snapshot of the form.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.visible() {
		return Session{}
	}
	s := Session{
		Visible: true,
		Mode:    modeOf(c.form.Current()),
		Fields:  c.fields,
	}
	if c.target != nil {
		t := *c.target
		s.Target = &t
	}
	return s
}

// Busy reports whether a remote call is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return apperrors.ErrBusy
	}
	c.busy = true
	return nil
}

// end clears the busy flag and releases the lock taken after a remote call.
func (c *Controller) end() {
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) visible() bool {
	return c.form.Current() != stateHidden
}

func (c *Controller) discardForm() error {
	if c.form.Can(eventClose) {
		if err := fire(c.form, eventClose); err != nil {
			return err
		}
	}
	c.target = nil
	c.fields = domain.Fields{}
	return nil
}

func (c *Controller) indexOf(id int64) int {
	return slices.IndexFunc(c.users, func(u domain.User) bool { return u.ID == id })
}

// nextClientID returns len(users)+1, or max(ID)+1 when that identifier is
// already taken (e.g. after deletions or with sparse remote identifiers).
func nextClientID(users []domain.User) int64 {
	id := int64(len(users)) + 1
	var maxID int64
	taken := false
	for _, u := range users {
		if u.ID == id {
			taken = true
		}
		maxID = max(maxID, u.ID)
	}
	if taken {
		return maxID + 1
	}
	return id
}

func missingFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field())
	}
	return fields
}
