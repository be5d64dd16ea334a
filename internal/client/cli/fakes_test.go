package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/client/services"
	"github.com/dmitrijs2005/fishlog/internal/logging"
)

// ---- fake services ----

type fakeAuth struct {
	state services.State

	loginEmail, loginPass   string
	regEmail, regPass, name string
	patches                 []models.PreferencesPatch
	online                  []bool
	checks, logouts         int

	err      error
	checkErr error
}

func (f *fakeAuth) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	return f.err
}

func (f *fakeAuth) Register(_ context.Context, email, password, name string) error {
	f.regEmail, f.regPass, f.name = email, password, name
	return f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.err
}

func (f *fakeAuth) CheckAuth(context.Context) error {
	f.checks++
	return f.checkErr
}

func (f *fakeAuth) UpdatePreferences(_ context.Context, patch models.PreferencesPatch) error {
	f.patches = append(f.patches, patch)
	return f.err
}

func (f *fakeAuth) SetOnline(online bool) {
	f.online = append(f.online, online)
	f.state.IsOnline = online
}

func (f *fakeAuth) State() services.State       { return f.state }
func (f *fakeAuth) Close(context.Context) error { return nil }

type fakeCatches struct {
	list    []models.Catch
	created []models.CatchInput
	photos  [][]models.Photo
	deleted []string
	calls   []string
	err     error
}

func (f *fakeCatches) Create(_ context.Context, in models.CatchInput, photos []models.Photo) (*models.Catch, error) {
	f.created = append(f.created, in)
	f.photos = append(f.photos, photos)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Catch{ID: "c-new", Species: in.Species}, nil
}

func (f *fakeCatches) Update(_ context.Context, c models.Catch, _ []models.Photo) (*models.Catch, error) {
	return &c, f.err
}

func (f *fakeCatches) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeCatches) List(context.Context) ([]models.Catch, error) {
	f.calls = append(f.calls, "all")
	return f.list, f.err
}

func (f *fakeCatches) ListByUser(_ context.Context, userID string) ([]models.Catch, error) {
	f.calls = append(f.calls, "user:"+userID)
	return f.list, f.err
}

func (f *fakeCatches) ListByGroup(_ context.Context, groupID string) ([]models.Catch, error) {
	f.calls = append(f.calls, "group:"+groupID)
	return f.list, f.err
}

func (f *fakeCatches) Catches() []models.Catch { return f.list }

func (f *fakeCatches) PhotoURL(_ context.Context, key string) (string, error) {
	return "https://photos.local/" + key, f.err
}

// ---- helpers ----

func testUser() *models.User {
	return &models.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", Preferences: models.DefaultPreferences()}
}

func newTestApp(auth *fakeAuth, catches *fakeCatches, input string, out io.Writer) *App {
	return &App{
		authService:  auth,
		catchService: catches,
		logger:       logging.Nop(),
		reader:       bufio.NewReader(strings.NewReader(input)),
		out:          out,
	}
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(toString(v))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case error:
		return s.Error()
	default:
		return ""
	}
}

func stubInputs(t *testing.T, answers []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

var errBoom = autherr.Validation("boom")

type fakeGroups struct {
	known   map[string]models.Group
	list    []models.Group
	created []models.GroupInput
	avatars []*models.Photo
	calls   []string
	err     error
}

func (f *fakeGroups) Create(_ context.Context, in models.GroupInput, avatar *models.Photo) (*models.Group, error) {
	f.created = append(f.created, in)
	f.avatars = append(f.avatars, avatar)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Group{ID: "g-new", Name: in.Name}, nil
}

func (f *fakeGroups) Update(_ context.Context, g models.Group, _ *models.Photo) (*models.Group, error) {
	return &g, f.err
}

func (f *fakeGroups) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	return f.err
}

func (f *fakeGroups) List(context.Context) ([]models.Group, error) {
	f.calls = append(f.calls, "all")
	if f.err == nil {
		for _, g := range f.list {
			f.known[g.ID] = g
		}
	}
	return f.list, f.err
}

func (f *fakeGroups) ListByMember(_ context.Context, userID string) ([]models.Group, error) {
	f.calls = append(f.calls, "member:"+userID)
	return f.list, f.err
}

func (f *fakeGroups) AddMember(_ context.Context, groupID, userID string) (*models.Group, error) {
	f.calls = append(f.calls, "add:"+groupID+","+userID)
	return &models.Group{ID: groupID}, f.err
}

func (f *fakeGroups) RemoveMember(_ context.Context, groupID, userID string) (*models.Group, error) {
	f.calls = append(f.calls, "remove:"+groupID+","+userID)
	return &models.Group{ID: groupID}, f.err
}

func (f *fakeGroups) Groups() []models.Group { return f.list }

func (f *fakeGroups) Group(id string) (models.Group, bool) {
	g, ok := f.known[id]
	return g, ok
}

type fakeEvents struct {
	known   map[string]models.Event
	list    []models.Event
	created []models.EventInput
	calls   []string
	err     error
}

func (f *fakeEvents) Create(_ context.Context, in models.EventInput) (*models.Event, error) {
	f.created = append(f.created, in)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Event{ID: "e-new", Title: in.Title}, nil
}

func (f *fakeEvents) Update(_ context.Context, e models.Event) (*models.Event, error) {
	return &e, f.err
}

func (f *fakeEvents) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	return f.err
}

func (f *fakeEvents) List(context.Context) ([]models.Event, error) {
	f.calls = append(f.calls, "all")
	if f.err == nil {
		for _, e := range f.list {
			f.known[e.ID] = e
		}
	}
	return f.list, f.err
}

func (f *fakeEvents) ListByParticipant(_ context.Context, userID string) ([]models.Event, error) {
	f.calls = append(f.calls, "participant:"+userID)
	return f.list, f.err
}

func (f *fakeEvents) AddParticipant(_ context.Context, eventID, userID string) (*models.Event, error) {
	f.calls = append(f.calls, "add:"+eventID+","+userID)
	return &models.Event{ID: eventID}, f.err
}

func (f *fakeEvents) RemoveParticipant(_ context.Context, eventID, userID string) (*models.Event, error) {
	f.calls = append(f.calls, "remove:"+eventID+","+userID)
	return &models.Event{ID: eventID}, f.err
}

func (f *fakeEvents) Events() []models.Event { return f.list }

func (f *fakeEvents) Event(id string) (models.Event, bool) {
	e, ok := f.known[id]
	return e, ok
}

type fakeComments struct {
	list  []models.Comment
	calls []string
	err   error
}

func (f *fakeComments) Create(_ context.Context, catchID, userID, content string) (*models.Comment, error) {
	f.calls = append(f.calls, "create:"+catchID+","+userID+","+content)
	return &models.Comment{ID: "cm-new"}, f.err
}

func (f *fakeComments) Update(_ context.Context, id, content string) (*models.Comment, error) {
	f.calls = append(f.calls, "update:"+id+","+content)
	return &models.Comment{ID: id, Content: content}, f.err
}

func (f *fakeComments) Delete(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	return f.err
}

func (f *fakeComments) ListByCatch(_ context.Context, catchID string) ([]models.Comment, error) {
	f.calls = append(f.calls, "catch:"+catchID)
	return f.list, f.err
}

func (f *fakeComments) Comments() []models.Comment { return f.list }

// newSocialApp is newTestApp with group, event and comment fakes attached.
func newSocialApp(auth *fakeAuth, input string, out io.Writer) (*App, *fakeGroups, *fakeEvents, *fakeComments) {
	groups := &fakeGroups{known: map[string]models.Group{}}
	events := &fakeEvents{known: map[string]models.Event{}}
	comments := &fakeComments{}

	app := newTestApp(auth, nil, input, out)
	app.groupService = groups
	app.eventService = events
	app.commentService = comments
	return app, groups, events, comments
}
