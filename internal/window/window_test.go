package window

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
)

func openWindow(t *testing.T, host *fakeHost, width, height int) *Window {
	t.Helper()
	w := New(host, Config{})
	var initial props.Properties
	initial.SetSize(width, height)
	if err := w.Open(initial); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}

func TestOpen_CentersByDefault(t *testing.T) {
	host := newFakeHost()
	host.container = platform.Rect{Width: 800, Height: 600}
	w := openWindow(t, host, 200, 100)

	st := w.State()
	if !st.Open {
		t.Fatalf("window not open")
	}
	if st.Origin != (props.Point{X: 300, Y: 250}) {
		t.Fatalf("origin=%+v, want 300,250", st.Origin)
	}
	if host.frame.X != 300 || host.frame.Y != 250 {
		t.Fatalf("native frame=%+v", host.frame)
	}
	if len(w.RejectedProperties().Fields()) != 0 {
		t.Fatalf("open left rejected properties")
	}
}

func TestSetPropertiesNow_WindowedSize(t *testing.T) {
	sizes := []props.Size{{Width: 640, Height: 480}, {Width: 1, Height: 1}, {Width: 1280, Height: 720}}
	for _, size := range sizes {
		host := newFakeHost()
		w := openWindow(t, host, 800, 600)

		var req props.Properties
		req.SetSize(size.Width, size.Height)
		w.SetPropertiesNow(&req)

		if req.HasSize() {
			t.Fatalf("size %+v left in request", size)
		}
		if got := w.State().Size; got != size {
			t.Fatalf("state size=%+v, want %+v", got, size)
		}
		if !w.State().ContextNeedsUpdate {
			t.Fatalf("resize did not mark context dirty")
		}
		if len(host.setModes) != 0 {
			t.Fatalf("windowed resize switched display modes")
		}
	}
}

func TestSetPropertiesNow_FullscreenIdempotent(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 800, 600)

	var req props.Properties
	req.SetFullscreen(true)
	w.SetPropertiesNow(&req)
	if req.IsAny() {
		t.Fatalf("first request left %v", req.Fields())
	}
	first := w.State()
	if !first.Fullscreen {
		t.Fatalf("not fullscreen after first request")
	}
	switches := len(host.setModes)

	req.SetFullscreen(true)
	w.SetPropertiesNow(&req)
	if req.IsAny() {
		t.Fatalf("second request left %v", req.Fields())
	}
	if w.State() != first {
		t.Fatalf("state changed on second request:\n got %+v\nwant %+v", w.State(), first)
	}
	if len(host.setModes) != switches {
		t.Fatalf("second request switched modes again")
	}
}

func TestSetPropertiesNow_FullscreenRoundTrip(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var move props.Properties
	move.SetOrigin(100, 50)
	move.SetZOrder(props.ZBottom)
	move.SetFixedSize(true)
	w.SetPropertiesNow(&move)
	before := w.State()

	var enter props.Properties
	enter.SetFullscreen(true)
	w.SetPropertiesNow(&enter)

	st := w.State()
	if !st.Fullscreen || st.Origin != (props.Point{}) || st.Size != (props.Size{Width: 640, Height: 480}) {
		t.Fatalf("fullscreen state=%+v", st)
	}
	if host.current != modeVGA {
		t.Fatalf("display mode=%v, want %v", host.current, modeVGA)
	}
	if host.style.Decorated || host.level != platform.LevelAbove || !host.fullscreen {
		t.Fatalf("fullscreen window not covering screen: style=%+v level=%v", host.style, host.level)
	}
	if _, ok := w.Session(); !ok {
		t.Fatalf("no fullscreen session")
	}

	var exit props.Properties
	exit.SetFullscreen(false)
	w.SetPropertiesNow(&exit)

	after := w.State()
	if after.Size != before.Size || after.Origin != before.Origin {
		t.Fatalf("geometry not restored: before %+v/%+v after %+v/%+v", before.Origin, before.Size, after.Origin, after.Size)
	}
	if host.current != modeDesktop {
		t.Fatalf("display mode=%v, want desktop restored", host.current)
	}
	if host.level != platform.LevelBelow {
		t.Fatalf("z-order not re-applied: level=%v", host.level)
	}
	if host.style != (platform.Style{Decorated: true, Resizable: false}) {
		t.Fatalf("style not re-applied: %+v", host.style)
	}
	if host.frame.X != 100 || host.frame.Y != 50 {
		t.Fatalf("native origin not restored: %+v", host.frame)
	}
	if _, ok := w.Session(); ok {
		t.Fatalf("session still live")
	}
}

func TestSetPropertiesNow_Centering(t *testing.T) {
	for _, origin := range []platform.Origin{platform.TopLeft, platform.BottomLeft} {
		host := newFakeHost()
		host.origin = origin
		w := openWindow(t, host, 200, 100)
		host.container = platform.Rect{Width: 800, Height: 600}

		var req props.Properties
		req.SetOrigin(-2, -2)
		w.SetPropertiesNow(&req)

		if req.HasOrigin() {
			t.Fatalf("origin left in request")
		}
		if got := w.State().Origin; got != (props.Point{X: 300, Y: 250}) {
			t.Fatalf("origin=%+v, want 300,250", got)
		}
	}
}

func TestSetPropertiesNow_CentersOneAxis(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 200, 100)
	host.container = platform.Rect{Width: 801, Height: 600}

	var req props.Properties
	req.SetOrigin(-1, 40)
	w.SetPropertiesNow(&req)

	if got := w.State().Origin; got != (props.Point{X: 300, Y: 40}) {
		t.Fatalf("origin=%+v, want 300,40", got)
	}
}

func TestSetPropertiesNow_BottomLeftFlip(t *testing.T) {
	host := newFakeHost()
	host.origin = platform.BottomLeft
	w := openWindow(t, host, 200, 100)
	host.container = platform.Rect{Width: 800, Height: 600}

	var req props.Properties
	req.SetOrigin(10, 20)
	w.SetPropertiesNow(&req)

	if got := w.State().Origin; got != (props.Point{X: 10, Y: 20}) {
		t.Fatalf("state origin=%+v, want engine coordinates 10,20", got)
	}
	if host.frame.X != 10 || host.frame.Y != 480 {
		t.Fatalf("native frame=%+v, want 10,480", host.frame)
	}
}

func TestSetPropertiesNow_ModeLookupFailure(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 800, 600)
	before := w.State()

	var req props.Properties
	req.SetFullscreen(true)
	req.SetSize(333, 222)
	req.SetOrigin(5, 5)
	req.SetTitle("still applied")
	w.SetPropertiesNow(&req)

	if w.State().Fullscreen {
		t.Fatalf("entered fullscreen without a matching mode")
	}
	if !req.HasFullscreen() || !req.HasSize() || !req.HasOrigin() {
		t.Fatalf("dependent fields consumed: left %v", req.Fields())
	}
	if req.HasTitle() {
		t.Fatalf("independent field not applied")
	}
	if w.State().Size != before.Size || w.State().Origin != before.Origin {
		t.Fatalf("geometry changed after rejected fullscreen")
	}
	if len(host.setModes) != 0 {
		t.Fatalf("mode switched despite lookup failure")
	}
}

func TestSetPropertiesNow_ModeSetFailure(t *testing.T) {
	host := newFakeHost()
	host.failSetMode = true
	w := openWindow(t, host, 640, 480)

	var req props.Properties
	req.SetFullscreen(true)
	w.SetPropertiesNow(&req)

	if w.State().Fullscreen {
		t.Fatalf("fullscreen despite native failure")
	}
	if !req.HasFullscreen() {
		t.Fatalf("fullscreen consumed despite native failure")
	}
	if _, ok := w.Session(); ok {
		t.Fatalf("session created despite native failure")
	}
}

func TestSetPropertiesNow_FullscreenWithSizeUsesModeSwitch(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 800, 600)
	host.resizes = nil

	var req props.Properties
	req.SetFullscreen(true)
	req.SetSize(640, 480)
	w.SetPropertiesNow(&req)

	if req.IsAny() {
		t.Fatalf("left %v", req.Fields())
	}
	if !reflect.DeepEqual(host.setModes, []displaymode.Mode{modeVGA}) {
		t.Fatalf("mode switches=%v, want [%v]", host.setModes, modeVGA)
	}
	st := w.State()
	if !st.Fullscreen || st.Size != (props.Size{Width: 640, Height: 480}) {
		t.Fatalf("state=%+v", st)
	}
}

func TestSetPropertiesNow_FullscreenResizeSwitchesMode(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var req props.Properties
	req.SetFullscreen(true)
	w.SetPropertiesNow(&req)

	req.SetSize(800, 600)
	w.SetPropertiesNow(&req)
	if req.HasSize() {
		t.Fatalf("size left in request")
	}
	if host.current != modeSVGA {
		t.Fatalf("display mode=%v, want %v", host.current, modeSVGA)
	}
	sess, ok := w.Session()
	if !ok || sess.Windowed != modeDesktop {
		t.Fatalf("saved windowed mode=%v, want desktop", sess.Windowed)
	}

	req.SetSize(1000, 1000)
	w.SetPropertiesNow(&req)
	if !req.HasSize() {
		t.Fatalf("unmatched fullscreen size consumed")
	}
	if w.State().Size != (props.Size{Width: 800, Height: 600}) {
		t.Fatalf("size changed after failed lookup: %+v", w.State().Size)
	}
}

func TestSetPropertiesNow_MinimizeRequiresWindowed(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var req props.Properties
	req.SetMinimized(true)
	w.SetPropertiesNow(&req)
	if req.HasMinimized() || !host.minimized || !w.State().Minimized {
		t.Fatalf("minimize not applied")
	}

	req.SetMinimized(false)
	w.SetPropertiesNow(&req)
	if host.minimized || w.State().Minimized {
		t.Fatalf("restore not applied")
	}

	req.SetFullscreen(true)
	w.SetPropertiesNow(&req)
	req.SetMinimized(true)
	w.SetPropertiesNow(&req)
	if !req.HasMinimized() {
		t.Fatalf("minimize consumed while fullscreen")
	}
	if host.minimized {
		t.Fatalf("fullscreen window minimized")
	}
}

func TestSetPropertiesNow_StylePrecedence(t *testing.T) {
	tests := []struct {
		name                   string
		fixedSize, undecorated bool
		want                   platform.Style
	}{
		{"default", false, false, platform.Style{Decorated: true, Resizable: true}},
		{"fixed", true, false, platform.Style{Decorated: true, Resizable: false}},
		{"undecorated", false, true, platform.Style{}},
		{"undecorated wins", true, true, platform.Style{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			w := openWindow(t, host, 640, 480)

			var req props.Properties
			req.SetFixedSize(tt.fixedSize)
			req.SetUndecorated(tt.undecorated)
			w.SetPropertiesNow(&req)

			if req.IsAny() {
				t.Fatalf("left %v", req.Fields())
			}
			if host.style != tt.want {
				t.Fatalf("style=%+v, want %+v", host.style, tt.want)
			}
		})
	}
}

func TestSetPropertiesNow_ZOrderLevels(t *testing.T) {
	want := map[props.ZOrder]platform.Level{
		props.ZBottom: platform.LevelBelow,
		props.ZNormal: platform.LevelNormal,
		props.ZTop:    platform.LevelAbove,
	}
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)
	for z, level := range want {
		var req props.Properties
		req.SetZOrder(z)
		w.SetPropertiesNow(&req)
		if host.level != level {
			t.Fatalf("z-order %v gave level %v, want %v", z, host.level, level)
		}
		if w.State().ZOrder != z {
			t.Fatalf("state z-order=%v, want %v", w.State().ZOrder, z)
		}
	}
}

func TestSetPropertiesNow_ZOrderWhileFullscreenIsDeferred(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var req props.Properties
	req.SetFullscreen(true)
	w.SetPropertiesNow(&req)

	req.SetZOrder(props.ZBottom)
	req.SetUndecorated(true)
	w.SetPropertiesNow(&req)
	if req.IsAny() {
		t.Fatalf("left %v", req.Fields())
	}
	if host.level != platform.LevelAbove {
		t.Fatalf("fullscreen level overridden: %v", host.level)
	}

	req.SetFullscreen(false)
	w.SetPropertiesNow(&req)
	if host.level != platform.LevelBelow {
		t.Fatalf("deferred z-order not applied on exit: %v", host.level)
	}
	if host.style != (platform.Style{}) {
		t.Fatalf("deferred undecorated not applied on exit: %+v", host.style)
	}
}

func TestSetPropertiesNow_TitleForegroundParent(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var req props.Properties
	req.SetTitle("hello")
	req.SetForeground(true)
	req.SetParent(42)
	w.SetPropertiesNow(&req)

	if req.IsAny() {
		t.Fatalf("left %v", req.Fields())
	}
	st := w.State()
	if st.Title != "hello" || host.title != "hello" {
		t.Fatalf("title state=%q host=%q", st.Title, host.title)
	}
	if !st.Foreground || !host.focused {
		t.Fatalf("foreground not applied")
	}
	if st.Parent != 42 || host.parent != 42 {
		t.Fatalf("parent state=%d host=%d", st.Parent, host.parent)
	}
}

func TestCursorHidden_FollowsPointer(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var req props.Properties
	req.SetCursorHidden(true)
	w.SetPropertiesNow(&req)
	if req.HasCursorHidden() {
		t.Fatalf("cursor_hidden left in request")
	}
	if !host.cursorVisible {
		t.Fatalf("cursor hidden while pointer outside")
	}
	if !w.State().CursorHidden {
		t.Fatalf("hidden state not tracked")
	}

	host.pending = []events.Event{events.PointerEntered{X: 1, Y: 1}}
	w.ProcessEvents()
	if host.cursorVisible {
		t.Fatalf("cursor visible after pointer entered")
	}

	host.pending = []events.Event{events.PointerLeft{}}
	w.ProcessEvents()
	if !host.cursorVisible {
		t.Fatalf("cursor hidden after pointer left")
	}

	host.pending = []events.Event{events.PointerEntered{}}
	w.ProcessEvents()
	req.SetCursorHidden(false)
	w.SetPropertiesNow(&req)
	if !host.cursorVisible {
		t.Fatalf("cursor still hidden after unhide request")
	}
}

func TestCursorHidden_PointerAlreadyInsideAtOpen(t *testing.T) {
	host := newFakeHost()
	host.pointerInside = true
	w := New(host, Config{})
	var initial props.Properties
	initial.SetSize(640, 480)
	initial.SetCursorHidden(true)
	if err := w.Open(initial); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !w.State().PointerInside {
		t.Fatalf("pointer position not queried at open")
	}
	if host.cursorVisible {
		t.Fatalf("cursor visible although the pointer is over the window")
	}
}

func TestCursorHidden_PointerInsideWithoutEnterEvent(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	// The pointer arrives without an enter event reaching the window.
	host.pointerInside = true
	var req props.Properties
	req.SetCursorHidden(true)
	w.SetPropertiesNow(&req)
	if host.cursorVisible {
		t.Fatalf("cursor visible although the pointer is over the window")
	}
}

func TestClose_CursorErrorStillCloses(t *testing.T) {
	host := newFakeHost()
	host.pointerInside = true
	var logs bytes.Buffer
	w := New(host, Config{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	var initial props.Properties
	initial.SetCursorHidden(true)
	if err := w.Open(initial); err != nil {
		t.Fatalf("Open: %v", err)
	}

	host.cursorErr = errors.New("cursor refused")
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.State().Open || host.created {
		t.Fatalf("window not closed")
	}
	if !strings.Contains(logs.String(), "cursor refused") {
		t.Fatalf("cursor error not logged: %s", logs.String())
	}
}

func TestSetPropertiesNow_BeforeOpenLeavesFields(t *testing.T) {
	host := newFakeHost()
	w := New(host, Config{})

	var req props.Properties
	req.SetSize(640, 480)
	req.SetTitle("x")
	w.SetPropertiesNow(&req)

	if !req.HasSize() || !req.HasTitle() {
		t.Fatalf("fields consumed before open: left %v", req.Fields())
	}
}

func TestReconcilerChain_SeesLeftovers(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var seen []string
	w.AddReconciler(ReconcilerFunc(func(w *Window, req *props.Properties) {
		seen = req.Fields()
		if req.HasFullscreen() {
			req.ClearFullscreen()
		}
	}))

	var req props.Properties
	req.SetFullscreen(true)
	req.SetSize(10, 10) // no such mode
	req.SetTitle("t")
	w.SetPropertiesNow(&req)

	if want := []string{"fullscreen", "size"}; !reflect.DeepEqual(seen, want) {
		t.Fatalf("second reconciler saw %v, want %v", seen, want)
	}
	if want := []string{"size"}; !reflect.DeepEqual(req.Fields(), want) {
		t.Fatalf("left %v, want %v", req.Fields(), want)
	}
}

func TestRequestProperties_AppliedOnProcessEvents(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var a, b props.Properties
	a.SetTitle("first")
	a.SetSize(320, 200)
	b.SetTitle("second")
	b.SetFullscreen(true)
	b.SetSize(123, 456)
	w.RequestProperties(a)
	w.RequestProperties(b)

	if w.State().Title == "second" {
		t.Fatalf("request applied before ProcessEvents")
	}
	w.ProcessEvents()

	if w.State().Title != "second" {
		t.Fatalf("title=%q, want second", w.State().Title)
	}
	rejected := w.RejectedProperties()
	if want := []string{"fullscreen", "size"}; !reflect.DeepEqual(rejected.Fields(), want) {
		t.Fatalf("rejected=%v", rejected.Fields())
	}
	if w.RejectedProperties().IsAny() {
		t.Fatalf("rejected properties not forgotten")
	}
}

func TestEvents_SystemChangesPublishState(t *testing.T) {
	host := newFakeHost()
	var published []State
	w := New(host, Config{OnChange: func(s State) { published = append(published, s) }})
	var initial props.Properties
	initial.SetSize(640, 480)
	if err := w.Open(initial); err != nil {
		t.Fatalf("Open: %v", err)
	}
	published = nil

	host.pending = []events.Event{
		events.Moved{X: 7, Y: 8},
		events.Resized{Width: 700, Height: 500},
		events.FocusChanged{Focused: true},
		events.MinimizedChanged{Minimized: true},
	}
	w.ProcessEvents()

	st := w.State()
	if st.Origin != (props.Point{X: 7, Y: 8}) || st.Size != (props.Size{Width: 700, Height: 500}) {
		t.Fatalf("geometry=%+v %+v", st.Origin, st.Size)
	}
	if !st.Foreground || !st.Minimized {
		t.Fatalf("focus/minimized not tracked: %+v", st)
	}
	if len(published) != 4 {
		t.Fatalf("published %d changes, want 4", len(published))
	}

	host.pending = []events.Event{events.Moved{X: 7, Y: 8}}
	w.ProcessEvents()
	if len(published) != 4 {
		t.Fatalf("unchanged move published a change")
	}
}

func TestEvents_InputForwarded(t *testing.T) {
	host := newFakeHost()
	var got []events.Input
	w := New(host, Config{Input: func(in events.Input) { got = append(got, in) }})
	if err := w.Open(props.Properties{}); err != nil {
		t.Fatalf("Open: %v", err)
	}

	host.pending = []events.Event{
		events.Key{Name: "a", Down: true},
		events.Wheel{DX: 1, DY: -1},
	}
	w.ProcessEvents()

	want := []events.Input{
		{Kind: events.ButtonDown, Button: "a"},
		{Kind: events.ButtonDown, Button: "wheel_down"},
		{Kind: events.ButtonUp, Button: "wheel_down"},
		{Kind: events.ButtonDown, Button: "wheel_right"},
		{Kind: events.ButtonUp, Button: "wheel_right"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("input=%+v, want %+v", got, want)
	}
}

func TestEvents_CloseRequestVeto(t *testing.T) {
	host := newFakeHost()
	allow := false
	w := New(host, Config{CloseRequest: func() bool { return allow }})
	if err := w.Open(props.Properties{}); err != nil {
		t.Fatalf("Open: %v", err)
	}

	host.pending = []events.Event{events.CloseRequested{}}
	w.ProcessEvents()
	if !w.State().Open || !host.created {
		t.Fatalf("vetoed close still closed the window")
	}

	allow = true
	host.pending = []events.Event{events.CloseRequested{}}
	w.ProcessEvents()
	if w.State().Open || host.created {
		t.Fatalf("allowed close did not close the window")
	}
}

func TestClose_LeavesFullscreen(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	var req props.Properties
	req.SetFullscreen(true)
	w.SetPropertiesNow(&req)

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if host.current != modeDesktop {
		t.Fatalf("display mode not restored on close: %v", host.current)
	}
	if w.State().Open {
		t.Fatalf("state still open")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestFrame_LockReleasedOnEveryPath(t *testing.T) {
	host := newFakeHost()
	w := openWindow(t, host, 640, 480)

	if !w.BeginFrame() {
		t.Fatalf("BeginFrame failed")
	}
	if w.ctxMu.TryLock() {
		t.Fatalf("context lock not held during frame")
	}
	w.EndFrame()
	if host.contextUpdates != 1 || host.swaps != 1 {
		t.Fatalf("updates=%d swaps=%d", host.contextUpdates, host.swaps)
	}
	if w.State().ContextNeedsUpdate {
		t.Fatalf("context update not consumed")
	}
	assertUnlocked(t, w)

	host.makeCurrentErr = platform.ErrNoWindow
	if w.BeginFrame() {
		t.Fatalf("BeginFrame succeeded without a current context")
	}
	assertUnlocked(t, w)

	host.makeCurrentErr = nil
	var req props.Properties
	req.SetMinimized(true)
	w.SetPropertiesNow(&req)
	if w.BeginFrame() {
		t.Fatalf("BeginFrame succeeded while minimized")
	}
	assertUnlocked(t, w)
}

func assertUnlocked(t *testing.T, w *Window) {
	t.Helper()
	if !w.ctxMu.TryLock() {
		t.Fatalf("context lock leaked")
	}
	w.ctxMu.Unlock()
}
