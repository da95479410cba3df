// Package webdrivertest provides an in-memory WebDriver and a handler
// serving fixture pages, for exercising the step definitions with and
// without a real browser.
package webdrivertest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// Driver is a selenium.WebDriver whose page is a fixed set of answers to
// element queries. Methods not overridden here panic through the nil
// embedded interface.
type Driver struct {
	selenium.WebDriver

	elements map[string][]*Element
	pending  map[string]int

	// Lookups records the queries made, as "by=value".
	Lookups []string

	URL       string
	PageTitle string
	Visited   []string

	AlertOpen    bool
	AlertMessage string
	Accepted     int
	Dismissed    int
	AlertErr     error

	Active *Element

	// Frames records the arguments of SwitchFrame calls.
	Frames []interface{}

	Scripts   []string
	ScriptErr error

	Shot    []byte
	ShotErr error
}

// NewDriver returns an empty page.
func NewDriver() *Driver {
	return &Driver{
		elements: make(map[string][]*Element),
		pending:  make(map[string]int),
	}
}

func key(by, value string) string {
	return by + "=" + value
}

// Add makes elems the answer to the query (by, value).
func (d *Driver) Add(by, value string, elems ...*Element) {
	k := key(by, value)
	d.elements[k] = append(d.elements[k], elems...)
}

// AddAfter is like Add, but the first n queries return nothing.
func (d *Driver) AddAfter(by, value string, n int, elems ...*Element) {
	d.Add(by, value, elems...)
	d.pending[key(by, value)] = n
}

// Remove makes the query (by, value) return nothing.
func (d *Driver) Remove(by, value string) {
	delete(d.elements, key(by, value))
}

// Queried reports whether the query (by, value) was made.
func (d *Driver) Queried(by, value string) bool {
	k := key(by, value)
	for _, l := range d.Lookups {
		if l == k {
			return true
		}
	}
	return false
}

func find(elements map[string][]*Element, pending map[string]int, by, value string) []selenium.WebElement {
	k := key(by, value)
	if pending[k] > 0 {
		pending[k]--
		return nil
	}
	var out []selenium.WebElement
	for _, e := range elements[k] {
		out = append(out, e)
	}
	return out
}

func noSuchElement(by, value string) error {
	return fmt.Errorf("no such element: Unable to locate element: {%q: %q}", by, value)
}

func (d *Driver) FindElements(by, value string) ([]selenium.WebElement, error) {
	d.Lookups = append(d.Lookups, key(by, value))
	return find(d.elements, d.pending, by, value), nil
}

func (d *Driver) FindElement(by, value string) (selenium.WebElement, error) {
	elems, _ := d.FindElements(by, value)
	if len(elems) == 0 {
		return nil, noSuchElement(by, value)
	}
	return elems[0], nil
}

func (d *Driver) Get(url string) error {
	d.URL = url
	d.Visited = append(d.Visited, url)
	return nil
}

func (d *Driver) CurrentURL() (string, error) {
	return d.URL, nil
}

func (d *Driver) Title() (string, error) {
	return d.PageTitle, nil
}

var errNoAlert = errors.New("no such alert: no such alert")

func (d *Driver) AlertText() (string, error) {
	if d.AlertErr != nil {
		return "", d.AlertErr
	}
	if !d.AlertOpen {
		return "", errNoAlert
	}
	return d.AlertMessage, nil
}

func (d *Driver) AcceptAlert() error {
	if !d.AlertOpen {
		return errNoAlert
	}
	d.AlertOpen = false
	d.Accepted++
	return nil
}

func (d *Driver) DismissAlert() error {
	if !d.AlertOpen {
		return errNoAlert
	}
	d.AlertOpen = false
	d.Dismissed++
	return nil
}

func (d *Driver) ActiveElement() (selenium.WebElement, error) {
	if d.Active == nil {
		return nil, errors.New("no such element: no active element")
	}
	return d.Active, nil
}

func (d *Driver) SwitchFrame(frame interface{}) error {
	d.Frames = append(d.Frames, frame)
	return nil
}

func (d *Driver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	d.Scripts = append(d.Scripts, script)
	return nil, d.ScriptErr
}

func (d *Driver) Screenshot() ([]byte, error) {
	return d.Shot, d.ShotErr
}

// Element is a selenium.WebElement backed by fields. Methods not overridden
// here panic through the nil embedded interface.
type Element struct {
	selenium.WebElement

	ID      string
	Tag     string
	Attrs   map[string]string
	Content string

	Hidden   bool
	Selected bool
	// Toggle makes Click flip Selected, like a checkbox.
	Toggle bool
	// Stale makes every query on the element fail as if it had been removed
	// from the page.
	Stale    bool
	ClickErr error

	Clicks  int
	Submits int
	Cleared int
	Keys    []string

	children map[string][]*Element
}

// NewElement returns an element with the given reference id and tag name.
func NewElement(id, tag string) *Element {
	return &Element{ID: id, Tag: tag, Attrs: make(map[string]string)}
}

// With sets attribute name to value and returns e.
func (e *Element) With(name, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
	return e
}

// Add makes elems the answer to the query (by, value) scoped to e.
func (e *Element) Add(by, value string, elems ...*Element) {
	if e.children == nil {
		e.children = make(map[string][]*Element)
	}
	k := key(by, value)
	e.children[k] = append(e.children[k], elems...)
}

var errStale = errors.New("stale element reference: element is not attached to the page document")

func (e *Element) Click() error {
	if e.Stale {
		return errStale
	}
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	if e.Toggle {
		e.Selected = !e.Selected
	} else {
		e.Selected = true
	}
	return nil
}

func (e *Element) SendKeys(keys string) error {
	if e.Stale {
		return errStale
	}
	e.Keys = append(e.Keys, keys)
	if keys == selenium.DeleteKey {
		e.With("value", "")
		return nil
	}
	e.With("value", e.Attrs["value"]+keys)
	return nil
}

func (e *Element) Clear() error {
	if e.Stale {
		return errStale
	}
	e.Cleared++
	e.With("value", "")
	return nil
}

func (e *Element) Submit() error {
	if e.Stale {
		return errStale
	}
	e.Submits++
	return nil
}

func (e *Element) TagName() (string, error) {
	if e.Stale {
		return "", errStale
	}
	return e.Tag, nil
}

func (e *Element) Text() (string, error) {
	if e.Stale {
		return "", errStale
	}
	return strings.TrimSpace(e.Content), nil
}

func (e *Element) IsSelected() (bool, error) {
	if e.Stale {
		return false, errStale
	}
	return e.Selected, nil
}

func (e *Element) IsDisplayed() (bool, error) {
	if e.Stale {
		return false, errStale
	}
	return !e.Hidden, nil
}

func (e *Element) GetAttribute(name string) (string, error) {
	if e.Stale {
		return "", errStale
	}
	v, ok := e.Attrs[name]
	if !ok {
		return "", errors.New("nil return value")
	}
	return v, nil
}

func (e *Element) FindElements(by, value string) ([]selenium.WebElement, error) {
	if e.Stale {
		return nil, errStale
	}
	return find(e.children, nil, by, value), nil
}

func (e *Element) FindElement(by, value string) (selenium.WebElement, error) {
	elems, err := e.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, noSuchElement(by, value)
	}
	return elems[0], nil
}

// MarshalJSON encodes the element reference the way the remote client
// does.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"ELEMENT":                             e.ID,
		"element-6066-11e4-a52e-4f735466cecf": e.ID,
	})
}
