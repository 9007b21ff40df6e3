package pageobject

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tebeka/selenium"

	"github.com/wanmail/pageobject/actions"
	"github.com/wanmail/pageobject/internal/webdrivertest"
)

func newTestSession(wd *webdrivertest.Driver, opts ...Option) *Session {
	opts = append([]Option{
		WithTimeout(200 * time.Millisecond),
		WithElementTimeout(200 * time.Millisecond),
		WithPollInterval(10 * time.Millisecond),
	}, opts...)
	return NewSession(wd, opts...)
}

// page returns a session on a page with one button, e1, at
// //button[@id='go'].
func page(opts ...Option) (*Session, *webdrivertest.Driver, *webdrivertest.Element) {
	wd := webdrivertest.New()
	el := webdrivertest.NewElement("e1")
	el.Tag = "button"
	el.TextValue = "Go"
	wd.Add(selenium.ByXPATH, "//button[@id='go']", el)
	return newTestSession(wd, opts...), wd, el
}

var goButton = XPath("//button[@id='go']")

func mustLocate(t *testing.T, s *Session, loc Locator) *Element {
	t.Helper()
	el, err := s.Locate(loc)
	if err != nil {
		t.Fatalf("Locate(%v) returned error: %v", loc, err)
	}
	return el
}

func TestLocateDelegatesReads(t *testing.T) {
	s, _, fake := page()
	el := mustLocate(t, s, goButton)

	text, err := el.Text()
	if err != nil {
		t.Fatalf("Text() returned error: %v", err)
	}
	tag, err := el.TagName()
	if err != nil {
		t.Fatalf("TagName() returned error: %v", err)
	}
	displayed, err := el.IsDisplayed()
	if err != nil {
		t.Fatalf("IsDisplayed() returned error: %v", err)
	}
	if text != fake.TextValue || tag != fake.Tag || !displayed {
		t.Fatalf("read (%q, %q, %t), want (%q, %q, true)", text, tag, displayed, fake.TextValue, fake.Tag)
	}
	if el.Unwrap() != selenium.WebElement(fake) {
		t.Fatalf("Unwrap() returned %v, want the native handle", el.Unwrap())
	}
	if loc, ok := el.Locator(); !ok || loc != goButton {
		t.Fatalf("Locator() = %v, %t, want %v, true", loc, ok, goButton)
	}
	if el.Session() != s {
		t.Fatalf("Session() did not return the locating session")
	}
}

func TestChainableOpsReturnReceiver(t *testing.T) {
	s, _, fake := page()
	el := mustLocate(t, s, goButton)

	ops := []struct {
		name string
		op   func() (*Element, error)
	}{
		{"Click", func() (*Element, error) { return el.Click(0) }},
		{"Submit", el.Submit},
		{"Clear", el.Clear},
		{"SendKeys", func() (*Element, error) { return el.SendKeys("x", 0) }},
		{"WaitVisible", func() (*Element, error) { return el.WaitVisible(0) }},
		{"WaitEnabled", func() (*Element, error) { return el.WaitEnabled(0) }},
		{"WaitClickable", func() (*Element, error) { return el.WaitClickable(0) }},
		{"ScriptClick", el.ScriptClick},
		{"ScrollIntoView", func() (*Element, error) { return el.ScrollIntoView(true) }},
		{"Hover", el.Hover},
		{"Do", func() (*Element, error) { return el.Do(selenium.WebElement.Clear) }},
	}
	for _, tc := range ops {
		got, err := tc.op()
		if err != nil {
			t.Fatalf("%s() returned error: %v", tc.name, err)
		}
		if got != el {
			t.Fatalf("%s() returned %p, want the receiver %p", tc.name, got, el)
		}
	}

	// The returned value keeps the full surface.
	again, err := el.Click(0)
	if err != nil {
		t.Fatalf("Click() returned error: %v", err)
	}
	if _, err := again.Click(0); err != nil {
		t.Fatalf("Click() on the returned element returned error: %v", err)
	}
	if fake.Clicks != 3 || fake.Submits != 1 || fake.Clears != 2 {
		t.Fatalf("native calls: %d clicks, %d submits, %d clears, want 3, 1, 2", fake.Clicks, fake.Submits, fake.Clears)
	}
}

func TestClickError(t *testing.T) {
	s, _, fake := page()
	el := mustLocate(t, s, goButton)
	fake.Stale = true

	_, err := el.Click(0)
	if !IsStale(err) {
		t.Fatalf("Click() on a stale element returned error %v, want a stale element error", err)
	}
	if !strings.Contains(err.Error(), goButton.String()) {
		t.Fatalf("Click() error %q does not name the locator", err)
	}
}

func TestFindChildren(t *testing.T) {
	s, _, fake := page()
	row := XPath("./li")
	want := []string{"one", "two", "three"}
	for _, text := range want {
		c := webdrivertest.NewElement(text)
		c.TextValue = text
		fake.Add(row.By, row.Value, c)
	}
	el := mustLocate(t, s, goButton)

	children, err := el.FindChildren(row)
	if err != nil {
		t.Fatalf("FindChildren() returned error: %v", err)
	}
	var got []string
	for _, c := range children {
		text, err := c.Text()
		if err != nil {
			t.Fatalf("Text() returned error: %v", err)
		}
		got = append(got, text)
		if loc, ok := c.Locator(); !ok || loc != row {
			t.Fatalf("child Locator() = %v, %t, want %v", loc, ok, row)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FindChildren() returned diff (-want/+got):\n%s", diff)
	}

	byValue, err := el.FindElements(row.By, row.Value)
	if err != nil {
		t.Fatalf("FindElements() returned error: %v", err)
	}
	if len(byValue) != len(want) {
		t.Fatalf("FindElements() returned %d elements, want %d", len(byValue), len(want))
	}

	none, err := el.FindChildren(CSS(".missing"))
	if err != nil {
		t.Fatalf("FindChildren() with no matches returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("FindChildren() with no matches returned %d elements", len(none))
	}
}

func TestFindChild(t *testing.T) {
	s, _, fake := page()
	icon := CSS("span.icon")
	fake.Add(icon.By, icon.Value, webdrivertest.NewElement("icon"))
	el := mustLocate(t, s, goButton)

	child, err := el.FindChild(icon)
	if err != nil {
		t.Fatalf("FindChild() returned error: %v", err)
	}
	if child.Session() != s {
		t.Fatalf("child has a different session")
	}

	_, err = el.FindChild(CSS("span.absent"))
	var nf *ElementNotFoundError
	if !errors.As(err, &nf) || nf.Locator != CSS("span.absent") {
		t.Fatalf("FindChild() returned error %v, want ElementNotFoundError for the child locator", err)
	}
}

func TestDerive(t *testing.T) {
	s, _, fake := page()
	inner := webdrivertest.NewElement("inner")
	inner.TextValue = "inner"
	fake.Add(selenium.ByTagName, "span", inner)
	el := mustLocate(t, s, goButton)

	got, err := el.Derive(func(we selenium.WebElement) (selenium.WebElement, error) {
		return we.FindElement(selenium.ByTagName, "span")
	})
	if err != nil {
		t.Fatalf("Derive() returned error: %v", err)
	}
	if _, ok := got.Locator(); ok {
		t.Fatalf("derived element has a locator")
	}
	if got.String() != "element" {
		t.Fatalf("String() = %q, want %q", got.String(), "element")
	}
	if text, _ := got.Text(); text != "inner" {
		t.Fatalf("Text() = %q, want %q", text, "inner")
	}

	wantErr := errors.New("boom")
	if _, err := el.Derive(func(selenium.WebElement) (selenium.WebElement, error) { return nil, wantErr }); err != wantErr {
		t.Fatalf("Derive() returned error %v, want %v", err, wantErr)
	}
	if _, err := el.Do(func(selenium.WebElement) error { return wantErr }); err != wantErr {
		t.Fatalf("Do() returned error %v, want %v", err, wantErr)
	}
}

func TestSendKeys(t *testing.T) {
	s, _, fake := page()
	el := mustLocate(t, s, goButton)

	if _, err := el.SendKeys("ab", 0); err != nil {
		t.Fatalf("SendKeys(%q, 0) returned error: %v", "ab", err)
	}
	if len(fake.Keys) != 1 || fake.Keys[0].Text != "ab" {
		t.Fatalf("SendKeys(%q, 0) sent %+v, want one call with %q", "ab", fake.Keys, "ab")
	}

	fake.Keys = nil
	var slept []time.Duration
	sleep = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleep = time.Sleep }()

	const delay = 30 * time.Millisecond
	if _, err := el.SendKeys("abc", delay); err != nil {
		t.Fatalf("SendKeys(%q, %v) returned error: %v", "abc", delay, err)
	}
	var texts []string
	for _, k := range fake.Keys {
		texts = append(texts, k.Text)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, texts); diff != "" {
		t.Fatalf("SendKeys() with delay returned diff (-want/+got):\n%s", diff)
	}
	if diff := cmp.Diff([]time.Duration{delay, delay}, slept); diff != "" {
		t.Fatalf("SendKeys() pauses returned diff (-want/+got):\n%s", diff)
	}
}

func TestScripts(t *testing.T) {
	tests := []struct {
		desc string
		op   func(*Element) (*Element, error)
		want string
	}{
		{
			desc: "script click",
			op:   (*Element).ScriptClick,
			want: "arguments[0].click();",
		},
		{
			desc: "scroll centered",
			op:   func(e *Element) (*Element, error) { return e.ScrollIntoView(true) },
			want: "arguments[0].scrollIntoView({block: 'center'});",
		},
		{
			desc: "scroll to top",
			op:   func(e *Element) (*Element, error) { return e.ScrollIntoView(false) },
			want: "arguments[0].scrollIntoView(true);",
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			s, wd, fake := page()
			if _, err := tc.op(mustLocate(t, s, goButton)); err != nil {
				t.Fatalf("%s returned error: %v", tc.desc, err)
			}
			if len(wd.Scripts) != 1 {
				t.Fatalf("%d scripts run, want 1", len(wd.Scripts))
			}
			got := wd.Scripts[0]
			if got.Code != tc.want {
				t.Fatalf("script = %q, want %q", got.Code, tc.want)
			}
			if len(got.Args) != 1 || got.Args[0] != interface{}(fake) {
				t.Fatalf("script args = %v, want the native handle", got.Args)
			}
		})
	}
}

func TestScriptError(t *testing.T) {
	s, wd, _ := page()
	wd.ScriptErr = errors.New("javascript error: click is not a function")
	_, err := mustLocate(t, s, goButton).ScriptClick()
	if err == nil || !strings.Contains(err.Error(), "script click") {
		t.Fatalf("ScriptClick() returned error %v, want a script click failure", err)
	}
}

func TestGesturesLegacy(t *testing.T) {
	tests := []struct {
		desc string
		op   func(*Element) error
		want []string
	}{
		{
			desc: "double click",
			op:   func(e *Element) error { _, err := e.DoubleClick(); return err },
			want: []string{"moveto e1 50,10", "doubleclick"},
		},
		{
			desc: "right click",
			op:   func(e *Element) error { _, err := e.RightClick(); return err },
			want: []string{"moveto e1 50,10", "click 2"},
		},
		{
			desc: "offset click",
			op:   func(e *Element) error { _, err := e.OffsetClick(-40, 5); return err },
			want: []string{"moveto e1 10,15", "click 0"},
		},
		{
			desc: "slide",
			op:   func(e *Element) error { _, err := e.Slide(100, 0, false); return err },
			want: []string{"moveto e1 50,10", "buttondown", "moveto e1 150,10", "buttonup"},
		},
		{
			desc: "hover",
			op:   func(e *Element) error { _, err := e.Hover(); return err },
			want: []string{"moveto e1 50,10"},
		},
		{
			desc: "control shortcut",
			op:   func(e *Element) error { return e.ControlShortcut("a") },
			want: []string{`keydown "\ue009"`, `keydown "a"`, `keyup "\ue009"`},
		},
		{
			desc: "send keys via actions",
			op:   func(e *Element) error { return e.SendKeysViaActions("a", "b") },
			want: []string{`keydown "a"`, `keydown "b"`},
		},
		{
			desc: "press default key",
			op:   func(e *Element) error { _, err := e.PressOrReleaseKey(KeyPress, ""); return err },
			want: []string{`keydown "\ue009"`},
		},
		{
			desc: "release shift",
			op: func(e *Element) error {
				_, err := e.PressOrReleaseKey(KeyRelease, selenium.ShiftKey)
				return err
			},
			want: []string{`keyup "\ue008"`},
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			s, wd, _ := page()
			if err := tc.op(mustLocate(t, s, goButton)); err != nil {
				t.Fatalf("%s returned error: %v", tc.desc, err)
			}
			if diff := cmp.Diff(tc.want, wd.Calls); diff != "" {
				t.Fatalf("%s sent commands with diff (-want/+got):\n%s", tc.desc, diff)
			}
		})
	}
}

func TestGestureSequencesLegacy(t *testing.T) {
	tests := []struct {
		desc string
		ops  []func(*Element) error
		want []string
	}{
		{
			desc: "hover then slide from the pointer",
			ops: []func(*Element) error{
				func(e *Element) error { _, err := e.Hover(); return err },
				func(e *Element) error { _, err := e.Slide(10, 0, true); return err },
			},
			want: []string{"moveto e1 50,10", "buttondown", "moveto e1 60,10", "buttonup"},
		},
		{
			desc: "press and later release a key",
			ops: []func(*Element) error{
				func(e *Element) error { _, err := e.PressOrReleaseKey(KeyPress, "a"); return err },
				func(e *Element) error { _, err := e.PressOrReleaseKey(KeyRelease, "a"); return err },
			},
			want: []string{`keydown "a"`},
		},
		{
			desc: "held modifier released with the session",
			ops: []func(*Element) error{
				func(e *Element) error { _, err := e.PressOrReleaseKey(KeyPress, ""); return err },
				func(e *Element) error { return e.Session().ReleaseInput() },
			},
			want: []string{`keydown "\ue009"`, `keyup "\ue009"`},
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			s, wd, _ := page()
			el := mustLocate(t, s, goButton)
			for i, op := range tc.ops {
				if err := op(el); err != nil {
					t.Fatalf("step %d returned error: %v", i, err)
				}
			}
			if diff := cmp.Diff(tc.want, wd.Calls); diff != "" {
				t.Fatalf("%s sent commands with diff (-want/+got):\n%s", tc.desc, diff)
			}
		})
	}
}

func TestSlideFromPointerWithoutTarget(t *testing.T) {
	s, wd, _ := page()
	_, err := mustLocate(t, s, goButton).Slide(10, 0, true)
	if err == nil || !strings.Contains(err.Error(), "no prior element target") {
		t.Fatalf("Slide(10, 0, true) returned error %v, want the missing target", err)
	}
	if diff := cmp.Diff([]string{"buttondown", "buttonup"}, wd.Calls); diff != "" {
		t.Fatalf("failed Slide() sent commands with diff (-want/+got):\n%s", diff)
	}
}

func TestReleaseKeyNotPressedLegacy(t *testing.T) {
	s, wd, _ := page()
	_, err := mustLocate(t, s, goButton).PressOrReleaseKey(KeyRelease, "a")
	if err == nil || !strings.Contains(err.Error(), "not supported without W3C actions") {
		t.Fatalf("PressOrReleaseKey(KeyRelease, %q) returned error %v, want an unsupported error", "a", err)
	}
	if len(wd.Calls) != 0 {
		t.Fatalf("PressOrReleaseKey() sent %q, want nothing", wd.Calls)
	}
}

func TestPressKeyStaysPressedW3C(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"value": null}`))
	}))
	defer srv.Close()

	wd := webdrivertest.New()
	wd.Add(goButton.By, goButton.Value, webdrivertest.NewElement("e1"))
	s := newTestSession(wd, WithPerformer(actions.NewW3C(srv.URL, wd.SessionID, srv.Client())))

	if _, err := mustLocate(t, s, goButton).PressOrReleaseKey(KeyPress, ""); err != nil {
		t.Fatalf("PressOrReleaseKey(KeyPress, \"\") returned error: %v", err)
	}
	const path = "/session/" + webdrivertest.SessionID + "/actions"
	if diff := cmp.Diff([]string{"POST " + path}, got); diff != "" {
		t.Fatalf("key press requests returned diff (-want/+got):\n%s", diff)
	}

	if err := s.ReleaseInput(); err != nil {
		t.Fatalf("ReleaseInput() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"POST " + path, "DELETE " + path}, got); diff != "" {
		t.Fatalf("release requests returned diff (-want/+got):\n%s", diff)
	}
}

func TestFocus(t *testing.T) {
	s, wd, fake := page()
	el := mustLocate(t, s, goButton)
	got, err := el.Focus()
	if err != nil {
		t.Fatalf("Focus() returned error: %v", err)
	}
	if got != el {
		t.Fatalf("Focus() did not return the receiver")
	}
	if fake.Clicks != 1 || len(wd.Calls) != 1 {
		t.Fatalf("Focus() made %d clicks and commands %q, want a hover and one click", fake.Clicks, wd.Calls)
	}
}

func TestGestureUsesPerformer(t *testing.T) {
	var got [][]actions.Action
	p := actions.PerformerFunc(func(a []actions.Action) error {
		got = append(got, a)
		return nil
	})
	s, wd, fake := page(WithPerformer(p))
	if _, err := mustLocate(t, s, goButton).DoubleClick(); err != nil {
		t.Fatalf("DoubleClick() returned error: %v", err)
	}
	if len(got) != 1 || len(got[0]) != 5 {
		t.Fatalf("performer got %v, want one five tick gesture", got)
	}
	if got[0][0].Element != selenium.WebElement(fake) {
		t.Fatalf("gesture moves to %v, want the native handle", got[0][0].Element)
	}
	if len(wd.Calls) != 0 {
		t.Fatalf("legacy commands %q sent with a custom performer", wd.Calls)
	}
}

func TestGestureError(t *testing.T) {
	p := actions.PerformerFunc(func([]actions.Action) error { return errors.New("move target out of bounds") })
	s, _, _ := page(WithPerformer(p))
	_, err := mustLocate(t, s, goButton).RightClick()
	if err == nil || !strings.Contains(err.Error(), "right click") || !strings.Contains(err.Error(), "out of bounds") {
		t.Fatalf("RightClick() returned error %v, want the gesture and the cause", err)
	}
}
