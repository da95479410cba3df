package webdriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// ErrNotFound is returned by the lookup helpers when no element matches.
var ErrNotFound = errors.New("element not found")

// Finder locates elements. Both selenium.WebDriver and selenium.WebElement
// implement it, so lookups can be scoped to a page or to an element.
type Finder interface {
	FindElements(by, value string) ([]selenium.WebElement, error)
}

// Input types which take a date and must be emptied with the Delete key
// rather than cleared.
var DateFields = []string{
	"datetime",
	"datetime-local",
	"date",
}

// Input types, plus textarea, that accept typed text.
var TextFields = []string{
	"text",
	"textarea",
	"password",
	"month",
	"time",
	"week",
	"number",
	"range",
	"email",
	"url",
	"tel",
	"color",
}

// ButtonFields are the kinds of element that can be pressed, in the order
// they are tried.
var ButtonFields = []string{
	"submit",
	"reset",
	"button-element",
	"button",
	"image",
	"button-role",
}

// Literal quotes s as an XPath string literal. XPath has no escape sequence,
// so a string containing both kinds of quote is built with concat().
func Literal(s string) string {
	hasDouble := strings.Contains(s, `"`)
	hasSingle := strings.Contains(s, `'`)
	switch {
	case hasDouble && hasSingle:
		return `concat("` + strings.Replace(s, `"`, `", '"', "`, -1) + `")`
	case hasDouble:
		return `'` + s + `'`
	default:
		return `"` + s + `"`
	}
}

// FieldXPath returns the XPath of a field of the given type whose attribute
// equals the XPath expression expr. For button elements and elements with a
// button role, the "value" attribute is matched against the element text.
func FieldXPath(fieldType, attribute, expr string) string {
	switch fieldType {
	case "select", "textarea", "option":
		return fmt.Sprintf(".//%s[@%s=%s]", fieldType, attribute, expr)
	case "button-element":
		if attribute == "value" {
			return fmt.Sprintf(".//button[contains(., %s)]", expr)
		}
		return fmt.Sprintf(".//button[@%s=%s]", attribute, expr)
	case "button-role":
		if attribute == "value" {
			return fmt.Sprintf(`.//*[@role="button"][contains(., %s)]`, expr)
		}
		return fmt.Sprintf(`.//*[@role="button"][@%s=%s]`, attribute, expr)
	default:
		return fmt.Sprintf(`.//input[@%s=%s][@type="%s"]`, attribute, expr, fieldType)
	}
}

// labelFor is an expression yielding the id of the element labelled by a
// label containing text.
func labelFor(text string) string {
	return fmt.Sprintf("//label[contains(., %s)]/@for", Literal(text))
}

// fieldXPaths lists, in order of preference, the paths matching a field by
// id, name, label and placeholder.
func fieldXPaths(fieldType, value string) []string {
	lit := Literal(value)
	return []string{
		FieldXPath(fieldType, "id", lit),
		FieldXPath(fieldType, "name", lit),
		FieldXPath(fieldType, "id", labelFor(value)),
		FieldXPath(fieldType, "placeholder", lit),
	}
}

// buttonXPaths lists the paths matching a button of fieldType by id, name
// and value.
func buttonXPaths(fieldType, value string) []string {
	lit := Literal(value)
	return []string{
		FieldXPath(fieldType, "id", lit),
		FieldXPath(fieldType, "name", lit),
		FieldXPath(fieldType, "value", lit),
	}
}

// first returns the first element matching any of the paths, or nil.
func first(f Finder, paths ...string) (selenium.WebElement, error) {
	for _, p := range paths {
		elems, err := f.FindElements(selenium.ByXPATH, p)
		if err != nil {
			if isNoSuchElement(err) {
				continue
			}
			return nil, err
		}
		if len(elems) > 0 {
			return elems[0], nil
		}
	}
	return nil, nil
}

// FindField finds a field of fieldType by its id, name, the text of its
// label or its placeholder.
func FindField(f Finder, fieldType, value string) (selenium.WebElement, error) {
	elem, err := first(f, fieldXPaths(fieldType, value)...)
	if err != nil {
		return nil, err
	}
	if elem == nil {
		return nil, fmt.Errorf("%w: no %s field named %q", ErrNotFound, fieldType, value)
	}
	return elem, nil
}

// FindAnyField returns the first field named value among the field types,
// tried in order.
func FindAnyField(f Finder, fieldTypes []string, value string) (selenium.WebElement, error) {
	for _, t := range fieldTypes {
		elem, err := first(f, fieldXPaths(t, value)...)
		if err != nil {
			return nil, err
		}
		if elem != nil {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("%w: no field named %q", ErrNotFound, value)
}

// FindButton finds a button by id, name or value (the text for button
// elements).
func FindButton(f Finder, value string) (selenium.WebElement, error) {
	for _, t := range ButtonFields {
		elem, err := first(f, buttonXPaths(t, value)...)
		if err != nil {
			return nil, err
		}
		if elem != nil {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("%w: no button %q", ErrNotFound, value)
}

// FindOption finds the option named optionName in the select named
// selectName. Options are matched by id, name or value, then by text.
func FindOption(f Finder, selectName, optionName string) (selenium.WebElement, error) {
	sel, err := FindField(f, "select", selectName)
	if err != nil {
		return nil, err
	}
	lit := Literal(optionName)
	opt, err := first(sel,
		FieldXPath("option", "id", lit),
		FieldXPath("option", "name", lit),
		FieldXPath("option", "value", lit),
		fmt.Sprintf("./option[contains(., %s)]", lit),
	)
	if err != nil {
		return nil, err
	}
	if opt == nil {
		return nil, fmt.Errorf("%w: no option %q in select %q", ErrNotFound, optionName, selectName)
	}
	return opt, nil
}

// OptionInSelect returns the option of the select named selectName whose
// text is option, or nil if there is none. An error is returned if the
// select itself cannot be found.
func OptionInSelect(f Finder, selectName, option string) (selenium.WebElement, error) {
	sel, err := FindField(f, "select", selectName)
	if err != nil {
		return nil, err
	}
	return first(sel, fmt.Sprintf("./option[normalize-space(text())=%s]", Literal(option)))
}

// contentXPath matches the innermost elements whose text contains text: the
// element must contain it while none of its children do, otherwise <html>
// and <body> would always match.
func contentXPath(text string) string {
	lit := Literal(text)
	return fmt.Sprintf(`//*[contains(normalize-space(.),%s) and not(./*[contains(normalize-space(.),%s)])]`, lit, lit)
}

// ContainsContent reports whether a displayed element contains text.
func ContainsContent(f Finder, text string) (bool, error) {
	elems, err := f.FindElements(selenium.ByXPATH, contentXPath(text))
	if err != nil {
		if isNoSuchElement(err) {
			return false, nil
		}
		return false, err
	}
	return anyDisplayed(elems)
}

// anyDisplayed reports whether one of elems is displayed. Elements removed
// from the page in the meantime are skipped.
func anyDisplayed(elems []selenium.WebElement) (bool, error) {
	for _, e := range elems {
		ok, err := e.IsDisplayed()
		if err != nil {
			if isStale(err) {
				continue
			}
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// displayed filters elems down to the displayed ones.
func displayed(elems []selenium.WebElement) ([]selenium.WebElement, error) {
	var out []selenium.WebElement
	for _, e := range elems {
		ok, err := e.IsDisplayed()
		if err != nil {
			if isStale(err) {
				continue
			}
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// idXPath matches the element with the given id.
func idXPath(id string) string {
	return fmt.Sprintf("id(%s)", Literal(id))
}

// tooltipXPath matches elements whose title, or Bootstrap's
// data-original-title, is tooltip.
func tooltipXPath(tooltip string) string {
	lit := Literal(tooltip)
	return fmt.Sprintf("//*[@title=%s or @data-original-title=%s]", lit, lit)
}
