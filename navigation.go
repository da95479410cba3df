package webdriver

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

func (b *Browser) visit(ref string) error {
	u, err := b.resolve(ref)
	if err != nil {
		return err
	}
	return b.wd.Get(u)
}

func (b *Browser) clickLink(text string) error {
	elem, err := b.wd.FindElement(selenium.ByLinkText, text)
	if err != nil {
		return fmt.Errorf("cannot find link %q: %w", text, err)
	}
	return elem.Click()
}

// present returns an error unless an element matches xpath.
func (b *Browser) present(xpath, what string) error {
	elems, err := b.wd.FindElements(selenium.ByXPATH, xpath)
	if err != nil && !isNoSuchElement(err) {
		return err
	}
	if len(elems) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return nil
}

// absent returns an error if an element matches xpath.
func (b *Browser) absent(xpath, what string) error {
	elems, err := b.wd.FindElements(selenium.ByXPATH, xpath)
	if err != nil && !isNoSuchElement(err) {
		return err
	}
	if len(elems) > 0 {
		return fmt.Errorf("expected no %s, found %d", what, len(elems))
	}
	return nil
}

func (b *Browser) shouldSeeLinkWithURL(href string) error {
	return b.present(fmt.Sprintf("//a[@href=%s]", Literal(href)), fmt.Sprintf("link with the url %q", href))
}

func (b *Browser) shouldSeeLinkTo(text, href string) error {
	return b.present(
		fmt.Sprintf("//a[@href=%s][./text()=%s]", Literal(href), Literal(text)),
		fmt.Sprintf("link to %q with the url %q", text, href))
}

func (b *Browser) shouldSeeLinkContaining(text, href string) error {
	return b.present(
		fmt.Sprintf("//a[@href=%s][contains(., %s)]", Literal(href), Literal(text)),
		fmt.Sprintf("link containing %q with the url %q", text, href))
}

func elementContainsXPath(id, value string) string {
	return fmt.Sprintf("%s[contains(., %s)]", idXPath(id), Literal(value))
}

func (b *Browser) elementContains(id, value string) error {
	return b.present(elementContainsXPath(id, value), fmt.Sprintf("element with id %q containing %q", id, value))
}

func (b *Browser) elementNotContains(id, value string) error {
	return b.absent(elementContainsXPath(id, value), fmt.Sprintf("element with id %q containing %q", id, value))
}

// visible reports whether the first element matching xpath is displayed.
func (b *Browser) visible(xpath string) (bool, error) {
	elems, err := b.wd.FindElements(selenium.ByXPATH, xpath)
	if err != nil {
		return false, err
	}
	if len(elems) == 0 {
		return false, nil
	}
	return elems[0].IsDisplayed()
}

func (b *Browser) shouldSeeIDWithin(id string, n int) error {
	if err := b.wait(seconds(n), func() (bool, error) { return b.visible(idXPath(id)) }); err != nil {
		return fmt.Errorf("element with id %q not visible: %w", id, err)
	}
	return nil
}

func (b *Browser) shouldSeeID(id string) error {
	elem, err := b.wd.FindElement(selenium.ByXPATH, idXPath(id))
	if err != nil {
		return fmt.Errorf("cannot find element with id %q: %w", id, err)
	}
	ok, err := elem.IsDisplayed()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("element with id %q is not displayed", id)
	}
	return nil
}

func (b *Browser) shouldNotSeeID(id string) error {
	ok, err := b.visible(idXPath(id))
	if err != nil && !isNoSuchElement(err) {
		return err
	}
	if ok {
		return fmt.Errorf("element with id %q is displayed", id)
	}
	return nil
}

func (b *Browser) shouldSeeWithin(text string, n int) error {
	if err := b.wait(seconds(n), func() (bool, error) { return ContainsContent(b.wd, text) }); err != nil {
		return fmt.Errorf("text %q not seen: %w", text, err)
	}
	return nil
}

func (b *Browser) shouldSee(text string) error {
	ok, err := ContainsContent(b.wd, text)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected to see %q", text)
	}
	return nil
}

func (b *Browser) shouldNotSee(text string) error {
	ok, err := ContainsContent(b.wd, text)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("expected not to see %q", text)
	}
	return nil
}

func (b *Browser) urlShouldBe(ref string) error {
	want, err := b.resolve(ref)
	if err != nil {
		return err
	}
	got, err := b.wd.CurrentURL()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("browser is at %q, want %q", got, want)
	}
	return nil
}

func (b *Browser) urlShouldContain(s string) error {
	got, err := b.wd.CurrentURL()
	if err != nil {
		return err
	}
	if !strings.Contains(got, s) {
		return fmt.Errorf("browser URL %q does not contain %q", got, s)
	}
	return nil
}

func (b *Browser) urlShouldNotContain(s string) error {
	got, err := b.wd.CurrentURL()
	if err != nil {
		return err
	}
	if strings.Contains(got, s) {
		return fmt.Errorf("browser URL %q contains %q", got, s)
	}
	return nil
}

func (b *Browser) pageTitle(want string) error {
	got, err := b.wd.Title()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("page title is %q, want %q", got, want)
	}
	return nil
}

func (b *Browser) switchToFrame(id string) error {
	elem, err := b.wd.FindElement(selenium.ByID, id)
	if err != nil {
		return fmt.Errorf("cannot find frame with id %q: %w", id, err)
	}
	return b.wd.SwitchFrame(elem)
}

func (b *Browser) switchToMain() error {
	return b.wd.SwitchFrame(nil)
}
