package webdriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// ErrNoOption is returned when a select has no option matching a value or
// text.
var ErrNoOption = errors.New("no matching option")

// SelectBox drives a <select> element.
type SelectBox struct {
	element  selenium.WebElement
	multiple bool
}

// NewSelectBox wraps el, which must be a select element.
func NewSelectBox(el selenium.WebElement) (*SelectBox, error) {
	tag, err := el.TagName()
	if err != nil {
		return nil, err
	}
	if strings.ToLower(tag) != "select" {
		return nil, fmt.Errorf(`element should have been "select" but was %q`, tag)
	}
	// A missing attribute is reported as an error by some drivers.
	mult, err := el.GetAttribute("multiple")
	multiple := err == nil && mult != "" && strings.ToLower(mult) != "false"
	return &SelectBox{element: el, multiple: multiple}, nil
}

// Element returns the underlying select element.
func (s *SelectBox) Element() selenium.WebElement {
	return s.element
}

// IsMultiple reports whether several options may be selected at once.
func (s *SelectBox) IsMultiple() bool {
	return s.multiple
}

// Options returns the options of the select.
func (s *SelectBox) Options() ([]selenium.WebElement, error) {
	return s.element.FindElements(selenium.ByXPATH, "./option")
}

// SelectByValue selects the options whose value attribute is value.
func (s *SelectBox) SelectByValue(value string) error {
	opts, err := s.element.FindElements(selenium.ByXPATH, fmt.Sprintf(".//option[@value=%s]", Literal(value)))
	if err != nil && !isNoSuchElement(err) {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("%w: cannot locate option with value %q", ErrNoOption, value)
	}
	return s.selectAll(opts)
}

// SelectByVisibleText selects the options displaying text, ignoring
// surrounding whitespace.
func (s *SelectBox) SelectByVisibleText(text string) error {
	opts, err := s.element.FindElements(selenium.ByXPATH, fmt.Sprintf(".//option[normalize-space(.)=%s]", Literal(strings.TrimSpace(text))))
	if err != nil && !isNoSuchElement(err) {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("%w: cannot locate option with text %q", ErrNoOption, text)
	}
	return s.selectAll(opts)
}

// DeselectAll clears every selected option. It is only valid for selects
// accepting multiple options.
func (s *SelectBox) DeselectAll() error {
	if !s.multiple {
		return errors.New("you may only deselect all options of a multi-select")
	}
	opts, err := s.Options()
	if err != nil {
		return err
	}
	for _, o := range opts {
		if err := setSelected(o, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *SelectBox) selectAll(opts []selenium.WebElement) error {
	for _, o := range opts {
		if err := setSelected(o, true); err != nil {
			return err
		}
		if !s.multiple {
			return nil
		}
	}
	return nil
}

// setSelected clicks option if its state differs from selected.
func setSelected(option selenium.WebElement, selected bool) error {
	sel, err := option.IsSelected()
	if err != nil {
		return err
	}
	if sel != selected {
		return option.Click()
	}
	return nil
}
