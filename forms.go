package webdriver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

func (b *Browser) shouldSeeForm(action string) error {
	return b.present(formActionXPath(action), fmt.Sprintf("form that goes to %q", action))
}

func formActionXPath(action string) string {
	return fmt.Sprintf("//form[@action=%s]", Literal(action))
}

func (b *Browser) fillIn(name, value string) error {
	field, err := FindAnyField(b.wd, DateFields, name)
	date := err == nil
	if errors.Is(err, ErrNotFound) {
		field, err = FindAnyField(b.wd, TextFields, name)
	}
	if err != nil {
		return fmt.Errorf("cannot find a field named %q: %w", name, err)
	}
	if date {
		err = field.SendKeys(selenium.DeleteKey)
	} else {
		err = field.Clear()
	}
	if err != nil {
		return err
	}
	return field.SendKeys(value)
}

func (b *Browser) press(value string) error {
	button, err := FindButton(b.wd, value)
	if err != nil {
		return err
	}
	return button.Click()
}

func (b *Browser) clickLabel(label string) error {
	elem, err := b.wd.FindElement(selenium.ByXPATH, fmt.Sprintf("//label[normalize-space(text())=%s]", Literal(label)))
	if err != nil {
		return fmt.Errorf("cannot find label %q: %w", label, err)
	}
	return elem.Click()
}

// sameElement reports whether a and b refer to the same element. Elements
// carry no exported identity, but their JSON form is the element reference
// sent over the wire.
func sameElement(a, b selenium.WebElement) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ja, jb), nil
}

func (b *Browser) focused(id string) (bool, error) {
	elem, err := b.wd.FindElement(selenium.ByXPATH, idXPath(id))
	if err != nil {
		return false, fmt.Errorf("cannot find element with id %q: %w", id, err)
	}
	active, err := b.wd.ActiveElement()
	if err != nil {
		return false, err
	}
	return sameElement(elem, active)
}

func (b *Browser) elementFocused(id string) error {
	ok, err := b.focused(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("element with id %q is not focused", id)
	}
	return nil
}

func (b *Browser) elementNotFocused(id string) error {
	ok, err := b.focused(id)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("element with id %q is focused", id)
	}
	return nil
}

func (b *Browser) inputHasValue(name, want string) error {
	field, err := FindAnyField(b.wd, append(append([]string{}, DateFields...), TextFields...), name)
	if err != nil {
		return fmt.Errorf("cannot find a field named %q: %w", name, err)
	}
	got, err := field.GetAttribute("value")
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("field %q has value %q, want %q", name, got, want)
	}
	return nil
}

func (b *Browser) submit(xpath, what string) error {
	form, err := b.wd.FindElement(selenium.ByXPATH, xpath)
	if err != nil {
		return fmt.Errorf("cannot find %s: %w", what, err)
	}
	return form.Submit()
}

func (b *Browser) submitOnlyForm() error {
	return b.submit("//form", "a form")
}

func (b *Browser) submitFormWithID(id string) error {
	return b.submit(idXPath(id), fmt.Sprintf("form with id %q", id))
}

func (b *Browser) submitFormWithAction(action string) error {
	return b.submit(formActionXPath(action), fmt.Sprintf("form with action %q", action))
}

// Checkboxes

func (b *Browser) setCheckbox(name string, checked bool) error {
	box, err := FindField(b.wd, "checkbox", name)
	if err != nil {
		return err
	}
	return setSelected(box, checked)
}

func (b *Browser) check(name string) error { return b.setCheckbox(name, true) }

func (b *Browser) uncheck(name string) error { return b.setCheckbox(name, false) }

// expectSelected checks the selection state of the field of fieldType.
func (b *Browser) expectSelected(fieldType, name string, want bool) error {
	field, err := FindField(b.wd, fieldType, name)
	if err != nil {
		return err
	}
	return expectElementSelected(field, fmt.Sprintf("%s %q", fieldType, name), want)
}

func expectElementSelected(elem selenium.WebElement, what string, want bool) error {
	got, err := elem.IsSelected()
	if err != nil {
		return err
	}
	if got != want {
		if want {
			return fmt.Errorf("%s is not selected", what)
		}
		return fmt.Errorf("%s is selected", what)
	}
	return nil
}

func (b *Browser) checkboxChecked(name string) error {
	return b.expectSelected("checkbox", name, true)
}

func (b *Browser) checkboxNotChecked(name string) error {
	return b.expectSelected("checkbox", name, false)
}

// Radios

func (b *Browser) choose(name string) error {
	radio, err := FindField(b.wd, "radio", name)
	if err != nil {
		return err
	}
	return radio.Click()
}

func (b *Browser) radioChosen(name string) error {
	return b.expectSelected("radio", name, true)
}

func (b *Browser) radioNotChosen(name string) error {
	return b.expectSelected("radio", name, false)
}

// Selects

func (b *Browser) selectOption(option, selectName string) error {
	opt, err := FindOption(b.wd, selectName, option)
	if err != nil {
		return err
	}
	return opt.Click()
}

// lines splits a doc string into its non-blank lines.
func lines(doc *godog.DocString) []string {
	if doc == nil {
		return nil
	}
	var out []string
	for _, l := range strings.Split(doc.Content, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// selectOptions makes the listed options the only selected ones. Each line
// is matched against option values first, then option text.
func (b *Browser) selectOptions(selectName string, doc *godog.DocString) error {
	field, err := FindField(b.wd, "select", selectName)
	if err != nil {
		return err
	}
	box, err := NewSelectBox(field)
	if err != nil {
		return err
	}
	if err := box.DeselectAll(); err != nil {
		return fmt.Errorf("select %q: %w", selectName, err)
	}
	for _, name := range lines(doc) {
		err := box.SelectByValue(name)
		if errors.Is(err, ErrNoOption) {
			err = box.SelectByVisibleText(name)
		}
		if err != nil {
			return fmt.Errorf("select %q: %w", selectName, err)
		}
	}
	return nil
}

func (b *Browser) optionSelected(option, selectName string) error {
	opt, err := FindOption(b.wd, selectName, option)
	if err != nil {
		return err
	}
	return expectElementSelected(opt, fmt.Sprintf("option %q of %q", option, selectName), true)
}

// attribute returns the named attribute of elem, or "" when it is absent.
func attribute(elem selenium.WebElement, name string) string {
	v, err := elem.GetAttribute(name)
	if err != nil {
		glog.V(2).Infof("Attribute %q unavailable: %v", name, err)
		return ""
	}
	return v
}

// optionsSelected checks that exactly the listed options are selected. An
// option is listed when its id, name, value or text is one of the lines.
func (b *Browser) optionsSelected(selectName string, doc *godog.DocString) error {
	field, err := FindField(b.wd, "select", selectName)
	if err != nil {
		return err
	}
	listed := make(map[string]bool)
	for _, name := range lines(doc) {
		listed[name] = true
	}
	opts, err := field.FindElements(selenium.ByXPATH, "./option")
	if err != nil {
		return err
	}
	for _, opt := range opts {
		text, err := opt.Text()
		if err != nil {
			return err
		}
		want := listed[attribute(opt, "id")] || listed[attribute(opt, "name")] ||
			listed[attribute(opt, "value")] || listed[text]
		if err := expectElementSelected(opt, fmt.Sprintf("option %q of %q", text, selectName), want); err != nil {
			return err
		}
	}
	return nil
}

func (b *Browser) selectContains(option, selectName string) error {
	opt, err := OptionInSelect(b.wd, selectName, option)
	if err != nil {
		return err
	}
	if opt == nil {
		return fmt.Errorf("select %q has no option %q", selectName, option)
	}
	return nil
}

func (b *Browser) selectNotContains(option, selectName string) error {
	opt, err := OptionInSelect(b.wd, selectName, option)
	if err != nil {
		return err
	}
	if opt != nil {
		return fmt.Errorf("select %q has option %q", selectName, option)
	}
	return nil
}
