package webdriver

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// Some drivers cannot handle alerts at all. Accepting or dismissing is
// therefore best effort.
func (b *Browser) acceptAlert() error {
	if err := b.wd.AcceptAlert(); err != nil {
		glog.V(1).Infof("Ignoring error accepting alert: %v", err)
	}
	return nil
}

func (b *Browser) dismissAlert() error {
	if err := b.wd.DismissAlert(); err != nil {
		glog.V(1).Infof("Ignoring error dismissing alert: %v", err)
	}
	return nil
}

// alertText fails when no alert is open, unlike accepting or dismissing,
// which ignore a missing alert.
func (b *Browser) alertText(want string) error {
	got, err := b.wd.AlertText()
	if err != nil {
		if isNoAlert(err) {
			return fmt.Errorf("expected an alert with text %q, but no alert is open: %w", want, err)
		}
		return fmt.Errorf("cannot read alert: %w", err)
	}
	if got != want {
		return fmt.Errorf("alert text is %q, want %q", got, want)
	}
	return nil
}

func (b *Browser) noAlert() error {
	text, err := b.wd.AlertText()
	switch {
	case err == nil:
		return fmt.Errorf("should not see an alert, alert %q shown", text)
	case isNoAlert(err):
		return nil
	default:
		return err
	}
}

func (b *Browser) tooltips(tooltip string) ([]selenium.WebElement, error) {
	elems, err := b.wd.FindElements(selenium.ByXPATH, tooltipXPath(tooltip))
	if err != nil && !isNoSuchElement(err) {
		return nil, err
	}
	return displayed(elems)
}

func (b *Browser) seeTooltip(tooltip string) error {
	elems, err := b.tooltips(tooltip)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		return fmt.Errorf("%w: element with tooltip %q", ErrNotFound, tooltip)
	}
	return nil
}

func (b *Browser) noTooltip(tooltip string) error {
	elems, err := b.tooltips(tooltip)
	if err != nil {
		return err
	}
	if len(elems) > 0 {
		return fmt.Errorf("expected no element with tooltip %q, found %d", tooltip, len(elems))
	}
	return nil
}

// pressTooltip clicks the first element with the tooltip that accepts the
// click.
func (b *Browser) pressTooltip(tooltip string) error {
	elems, err := b.wd.FindElements(selenium.ByXPATH, tooltipXPath(tooltip))
	if err != nil && !isNoSuchElement(err) {
		return err
	}
	for _, e := range elems {
		if err := e.Click(); err != nil {
			glog.V(1).Infof("Element with tooltip %q not clickable: %v", tooltip, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("no button with tooltip %q found", tooltip)
}
