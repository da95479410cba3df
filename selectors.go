package webdriver

import (
	"fmt"

	"github.com/tebeka/selenium"
)

// Steps addressing elements with $("selector") use CSS selectors as
// understood by the browser. jQuery extensions such as :visible are not
// available.

func (b *Browser) matching(selector string) ([]selenium.WebElement, error) {
	elems, err := b.wd.FindElements(selenium.ByCSSSelector, selector)
	if err != nil && !isNoSuchElement(err) {
		return nil, err
	}
	return elems, nil
}

func (b *Browser) firstMatching(selector string) (selenium.WebElement, error) {
	elems, err := b.matching(selector)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: no element matching $(%q)", ErrNotFound, selector)
	}
	return elems[0], nil
}

func (b *Browser) elementMatching(selector string) error {
	_, err := b.firstMatching(selector)
	return err
}

func (b *Browser) elementMatchingWithin(selector string, n int) error {
	err := b.wait(seconds(n), func() (bool, error) {
		elems, err := b.matching(selector)
		return len(elems) > 0, err
	})
	if err != nil {
		return fmt.Errorf("no element matching $(%q): %w", selector, err)
	}
	return nil
}

func (b *Browser) noElementMatching(selector string) error {
	elems, err := b.matching(selector)
	if err != nil {
		return err
	}
	if len(elems) > 0 {
		return fmt.Errorf("expected no element matching $(%q), found %d", selector, len(elems))
	}
	return nil
}

func (b *Browser) noElementMatchingWithin(selector string, n int) error {
	err := b.wait(seconds(n), func() (bool, error) {
		elems, err := b.matching(selector)
		return len(elems) == 0, err
	})
	if err != nil {
		return fmt.Errorf("elements matching $(%q) still present: %w", selector, err)
	}
	return nil
}

func (b *Browser) exactlyMatching(n int, selector string) error {
	elems, err := b.matching(selector)
	if err != nil {
		return err
	}
	if len(elems) != n {
		return fmt.Errorf("found %d elements matching $(%q), want %d", len(elems), selector, n)
	}
	return nil
}

func (b *Browser) fillInSelector(selector, value string) error {
	elem, err := b.firstMatching(selector)
	if err != nil {
		return err
	}
	if err := elem.Clear(); err != nil {
		return err
	}
	return elem.SendKeys(value)
}

func (b *Browser) submitSelector(selector string) error {
	elem, err := b.firstMatching(selector)
	if err != nil {
		return err
	}
	return elem.Submit()
}

func (b *Browser) checkSelector(selector string) error {
	elem, err := b.firstMatching(selector)
	if err != nil {
		return err
	}
	return setSelected(elem, true)
}

func (b *Browser) clickSelector(selector string) error {
	elem, err := b.firstMatching(selector)
	if err != nil {
		return err
	}
	return elem.Click()
}

// followSelector navigates to the href of the matched link instead of
// clicking it, so hidden links can be followed too.
func (b *Browser) followSelector(selector string) error {
	elem, err := b.firstMatching(selector)
	if err != nil {
		return err
	}
	href, err := elem.GetAttribute("href")
	if err != nil {
		return fmt.Errorf("element matching $(%q) has no href: %w", selector, err)
	}
	return b.visit(href)
}

func (b *Browser) selectSelector(selector string) error {
	elem, err := b.firstMatching(selector)
	if err != nil {
		return err
	}
	return setSelected(elem, true)
}

func (b *Browser) switchToFrameSelector(selector string) error {
	elem, err := b.firstMatching(selector)
	if err != nil {
		return err
	}
	return b.wd.SwitchFrame(elem)
}
