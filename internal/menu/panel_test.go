package menu

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/prefs"
	"github.com/five82/perch/internal/reader"
)

type fakeToggle struct {
	model   *prefs.Prefs
	el      *Element
	renders int
}

func (f *fakeToggle) Render() *Element {
	f.renders++
	return f.el
}

type fakeDialog struct {
	collection *feed.Set
	calls      []string
}

func (d *fakeDialog) Render() Dialog {
	d.calls = append(d.calls, "render")
	return d
}

func (d *fakeDialog) Show() {
	d.calls = append(d.calls, "show")
}

type dialogRecorder struct {
	built []*fakeDialog
}

func (r *dialogRecorder) factory(collection *feed.Set) Dialog {
	d := &fakeDialog{collection: collection}
	r.built = append(r.built, d)
	return d
}

type fakeUpdater struct {
	calls   chan struct{}
	release chan struct{}
	err     error
}

func newFakeUpdater() *fakeUpdater {
	return &fakeUpdater{calls: make(chan struct{}, 8)}
}

func (u *fakeUpdater) TriggerUpdate(ctx context.Context) error {
	u.calls <- struct{}{}
	if u.release != nil {
		<-u.release
	}
	return u.err
}

type fixture struct {
	panel     *Panel
	prefs     *prefs.Prefs
	feeds     *feed.Set
	entries   *feed.EntrySet
	toggles   []*fakeToggle
	subscribe *dialogRecorder
	manage    *dialogRecorder
	updater   *fakeUpdater
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()
	fx := &fixture{
		prefs:     &prefs.Prefs{ShowRead: false},
		feeds:     feed.NewSet(feed.Feed{ID: 1, Title: "FeedA"}, feed.Feed{ID: 2, Title: "FeedB"}),
		entries:   feed.NewEntrySet(),
		subscribe: &dialogRecorder{},
		manage:    &dialogRecorder{},
		updater:   newFakeUpdater(),
	}
	opts := Options{
		Preferences: fx.prefs,
		Feeds:       fx.feeds,
		Entries:     fx.entries,
		Toggle: func(model *prefs.Prefs) Widget {
			tg := &fakeToggle{model: model, el: NewElement(ToggleClass, "Show read")}
			fx.toggles = append(fx.toggles, tg)
			return tg
		},
		Subscribe:   fx.subscribe.factory,
		ManageFeeds: fx.manage.factory,
		Updater:     fx.updater,
	}
	for _, m := range mutate {
		m(&opts)
	}
	p, err := New(opts)
	require.NoError(t, err)
	fx.panel = p
	return fx
}

func classes(el *Element) []string {
	out := []string{}
	for _, c := range el.Children() {
		out = append(out, c.Class)
	}
	return out
}

var wantOrder = []string{
	ToggleClass, "subscribe", "manage-feeds", "update-feeds", "refresh", "all-entries", "show-starred",
}

func TestNew_RendersSevenItemsInOrder(t *testing.T) {
	fx := newFixture(t)

	assert.Equal(t, wantOrder, classes(fx.panel.Root()))
	require.Len(t, fx.toggles, 1)
	assert.Same(t, fx.prefs, fx.toggles[0].model)
}

func TestRender_IsIdempotentAndKeepsToggleInstance(t *testing.T) {
	fx := newFixture(t)
	first := fx.panel.Root().Children()

	got := fx.panel.Render().Render()
	require.Same(t, fx.panel, got)

	second := fx.panel.Root().Children()
	assert.Equal(t, wantOrder, classes(fx.panel.Root()))
	require.Len(t, second, len(first))
	for i := range first {
		assert.Same(t, first[i], second[i], "child %d rebuilt", i)
	}

	assert.Len(t, fx.toggles, 1, "toggle constructed more than once")
	assert.Equal(t, 1, fx.toggles[0].renders, "toggle output rebuilt on re-render")
	assert.Same(t, fx.toggles[0], fx.panel.Toggle())
	assert.Same(t, fx.panel.Root(), fx.toggles[0].el.Parent())
}

func TestRender_ToggleStateSurvives(t *testing.T) {
	fx := newFixture(t)
	fx.toggles[0].el.Label = "Show read: on"

	for i := 0; i < 5; i++ {
		fx.panel.Render()
	}

	assert.Equal(t, "Show read: on", fx.panel.Root().Find(ToggleClass).Label)
}

func TestDispatch_InteractiveCommandsAreHandled(t *testing.T) {
	fx := newFixture(t)

	for _, cmd := range []Command{CmdSubscribe, CmdManageFeeds, CmdUpdateFeeds, CmdRefresh} {
		assert.Equal(t, Handled, fx.panel.Dispatch(cmd), "command %s", cmd)
	}
}

func TestDispatch_LinksAreNotIntercepted(t *testing.T) {
	fx := newFixture(t)

	assert.Equal(t, Result{Href: PathAllEntries}, fx.panel.Dispatch(CmdAllEntries))
	assert.Equal(t, Result{Href: PathStarred}, fx.panel.Dispatch(CmdShowStarred))
	assert.Nil(t, fx.panel.Handler(CmdAllEntries))
	assert.Equal(t, Result{}, fx.panel.Dispatch(Command("bogus")))

	assert.Equal(t, PathAllEntries, fx.panel.Root().Find("all-entries").Href)
	assert.Equal(t, PathStarred, fx.panel.Root().Find("show-starred").Href)
	assert.Empty(t, fx.subscribe.built)
	assert.Empty(t, fx.manage.built)
}

func TestSubscribe_ConstructsOneDialogWithSameFeedSet(t *testing.T) {
	fx := newFixture(t)

	res := fx.panel.Dispatch(CmdSubscribe)

	assert.True(t, res.Handled)
	require.Len(t, fx.subscribe.built, 1)
	assert.Same(t, fx.feeds, fx.subscribe.built[0].collection)
	assert.Equal(t, []string{"render", "show"}, fx.subscribe.built[0].calls)
	assert.Empty(t, fx.manage.built)
}

func TestManageFeeds_ConstructsFreshDialogPerCommand(t *testing.T) {
	fx := newFixture(t)

	fx.panel.Dispatch(CmdManageFeeds)
	fx.panel.Dispatch(CmdManageFeeds)

	require.Len(t, fx.manage.built, 2)
	assert.NotSame(t, fx.manage.built[0], fx.manage.built[1])
	for _, d := range fx.manage.built {
		assert.Same(t, fx.feeds, d.collection)
		assert.Equal(t, []string{"render", "show"}, d.calls)
	}
	assert.Equal(t, []string{"FeedA", "FeedB"}, []string{fx.feeds.All()[0].Title, fx.feeds.All()[1].Title})
}

func TestHandler_WorksDetached(t *testing.T) {
	fx := newFixture(t)
	subscribe := fx.panel.Handler(CmdSubscribe)
	refresh := fx.panel.Handler(CmdRefresh)
	require.NotNil(t, subscribe)
	require.NotNil(t, refresh)

	fx.panel.Render()

	assert.Equal(t, Handled, subscribe())
	assert.Equal(t, Handled, refresh())
	assert.Len(t, fx.subscribe.built, 1)
}

func TestTriggerUpdate_DoesNotBlock(t *testing.T) {
	fx := newFixture(t)
	fx.updater.release = make(chan struct{})
	defer close(fx.updater.release)

	done := make(chan Result, 1)
	go func() { done <- fx.panel.Dispatch(CmdUpdateFeeds) }()

	select {
	case res := <-done:
		assert.Equal(t, Handled, res)
	case <-time.After(2 * time.Second):
		t.Fatal("update handler blocked on the request")
	}

	select {
	case <-fx.updater.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("update request never issued")
	}
}

func TestTriggerUpdate_TwoCommandsTwoRequests(t *testing.T) {
	fx := newFixture(t)

	fx.panel.Dispatch(CmdUpdateFeeds)
	fx.panel.Dispatch(CmdUpdateFeeds)

	for i := 0; i < 2; i++ {
		select {
		case <-fx.updater.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("request %d never issued", i+1)
		}
	}
}

func TestTriggerUpdate_FailureIsSilentUnlessObserved(t *testing.T) {
	fx := newFixture(t)
	fx.updater.err = errors.New("server down")

	assert.NotPanics(t, func() { fx.panel.Dispatch(CmdUpdateFeeds) })
	<-fx.updater.calls

	results := make(chan error, 1)
	observed := newFixture(t, func(o *Options) {
		o.OnUpdateResult = func(err error) { results <- err }
	})
	observed.updater.err = errors.New("server down")
	observed.panel.Dispatch(CmdUpdateFeeds)

	select {
	case err := <-results:
		assert.EqualError(t, err, "server down")
	case <-time.After(2 * time.Second):
		t.Fatal("observer never called")
	}
}

func TestTriggerUpdate_HitsReaderEndpointOnce(t *testing.T) {
	var hits atomic.Int32
	gotPath := make(chan string, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotPath <- r.URL.Path
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := reader.NewClient(server.URL)
	require.NoError(t, err)

	fx := newFixture(t, func(o *Options) { o.Updater = client })
	assert.Equal(t, Handled, fx.panel.Dispatch(CmdUpdateFeeds))

	select {
	case path := <-gotPath:
		assert.Equal(t, reader.UpdatePath, path)
	case <-time.After(2 * time.Second):
		t.Fatal("update request never reached the server")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRefresh_IsNoOp(t *testing.T) {
	fx := newFixture(t)
	prefsBefore := *fx.prefs
	feedsBefore := fx.feeds.All()
	entriesBefore := fx.entries.All()
	childrenBefore := fx.panel.Root().Children()
	labelsBefore := []string{}
	for _, c := range childrenBefore {
		labelsBefore = append(labelsBefore, c.Label)
	}

	assert.Equal(t, Handled, fx.panel.Refresh())

	assert.Equal(t, prefsBefore, *fx.prefs)
	assert.Equal(t, feedsBefore, fx.feeds.All())
	assert.Equal(t, entriesBefore, fx.entries.All())
	childrenAfter := fx.panel.Root().Children()
	require.Len(t, childrenAfter, len(childrenBefore))
	for i := range childrenBefore {
		assert.Same(t, childrenBefore[i], childrenAfter[i])
		assert.Equal(t, labelsBefore[i], childrenAfter[i].Label)
	}
	assert.Empty(t, fx.subscribe.built)
	assert.Empty(t, fx.manage.built)
	assert.Empty(t, fx.updater.calls)
}

func TestNew_RequiresReferences(t *testing.T) {
	base := func() Options {
		return Options{
			Preferences: &prefs.Prefs{},
			Feeds:       feed.NewSet(),
			Entries:     feed.NewEntrySet(),
			Toggle:      func(*prefs.Prefs) Widget { return &fakeToggle{el: NewElement(ToggleClass, "")} },
			Subscribe:   (&dialogRecorder{}).factory,
			ManageFeeds: (&dialogRecorder{}).factory,
			Updater:     newFakeUpdater(),
		}
	}

	cases := map[string]func(*Options){
		"preferences": func(o *Options) { o.Preferences = nil },
		"feeds":       func(o *Options) { o.Feeds = nil },
		"entries":     func(o *Options) { o.Entries = nil },
		"toggle":      func(o *Options) { o.Toggle = nil },
		"subscribe":   func(o *Options) { o.Subscribe = nil },
		"manage":      func(o *Options) { o.ManageFeeds = nil },
		"updater":     func(o *Options) { o.Updater = nil },
		"toggle element": func(o *Options) {
			o.Toggle = func(*prefs.Prefs) Widget { return &fakeToggle{} }
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			opts := base()
			mutate(&opts)
			p, err := New(opts)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}

	p, err := New(base())
	require.NoError(t, err)
	assert.Len(t, p.Root().Children(), 7)
}

func TestCommands_MatchRenderOrder(t *testing.T) {
	fx := newFixture(t)
	got := []string{ToggleClass}
	for _, c := range Commands() {
		got = append(got, string(c))
	}
	assert.Equal(t, classes(fx.panel.Root()), got)
}
