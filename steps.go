package webdriver

// stepDef binds a sentence pattern to the method handling it.
type stepDef struct {
	expr string
	fn   interface{}
}

// steps returns the catalog of sentences understood by b. Every pattern is
// anchored so that a sentence matches at most one definition.
func (b *Browser) steps() []stepDef {
	return []stepDef{
		// URLs
		{`^I visit "(.*?)"$`, b.visit},
		{`^I go to "(.*?)"$`, b.visit},

		// Links
		{`^I click "(.*?)"$`, b.clickLink},
		{`^I should see a link with the url "(.*?)"$`, b.shouldSeeLinkWithURL},
		{`^I should see a link to "(.*?)" with the url "(.*?)"$`, b.shouldSeeLinkTo},
		{`^I should see a link that contains the text "(.*?)" and the url "(.*?)"$`, b.shouldSeeLinkContaining},

		// General
		{`^The element with id of "(.*?)" contains "(.*?)"$`, b.elementContains},
		{`^The element with id of "(.*?)" does not contain "(.*?)"$`, b.elementNotContains},
		{`^I should see an element with id of "(.*?)" within (\d+) seconds?$`, b.shouldSeeIDWithin},
		{`^I should see an element with id of "(.*?)"$`, b.shouldSeeID},
		{`^I should not see an element with id of "(.*?)"$`, b.shouldNotSeeID},
		{`^I should see "([^"]+)" within (\d+) seconds?$`, b.shouldSeeWithin},
		{`^I should see "([^"]+)"$`, b.shouldSee},
		{`^I see "([^"]+)"$`, b.shouldSee},
		{`^I should not see "([^"]+)"$`, b.shouldNotSee},
		{`^I should be at "(.*?)"$`, b.urlShouldBe},

		// Browser
		{`^The browser's URL should be "(.*?)"$`, b.urlShouldBe},
		{`^The browser's URL should contain "(.*?)"$`, b.urlShouldContain},
		{`^The browser's URL should not contain "(.*?)"$`, b.urlShouldNotContain},

		// Forms
		{`^I should see a form that goes to "(.*?)"$`, b.shouldSeeForm},
		{`^I fill in "(.*?)" with "(.*?)"$`, b.fillIn},
		{`^I press "(.*?)"$`, b.press},
		{`^I click on label "([^"]*)"$`, b.clickLabel},
		{`^Element with id "([^"]*)" should be focused$`, b.elementFocused},
		{`^Element with id "([^"]*)" should not be focused$`, b.elementNotFocused},
		{`^Input "([^"]*)" (?:has|should have) value "([^"]*)"$`, b.inputHasValue},
		{`^I submit the only form$`, b.submitOnlyForm},
		{`^I submit the form with id "([^"]*)"$`, b.submitFormWithID},
		{`^I submit the form with action "([^"]*)"$`, b.submitFormWithAction},

		// Checkboxes
		{`^I check "(.*?)"$`, b.check},
		{`^I uncheck "(.*?)"$`, b.uncheck},
		{`^The "(.*?)" checkbox should be checked$`, b.checkboxChecked},
		{`^The "(.*?)" checkbox should not be checked$`, b.checkboxNotChecked},

		// Selects
		{`^I select "(.*?)" from "(.*?)"$`, b.selectOption},
		{`^I select the following from "([^"]*?)":?$`, b.selectOptions},
		{`^The "(.*?)" option from "(.*?)" should be selected$`, b.optionSelected},
		{`^The following options from "([^"]*?)" should be selected:?$`, b.optionsSelected},
		{`^I should see option "([^"]*)" in selector "([^"]*)"$`, b.selectContains},
		{`^I should not see option "([^"]*)" in selector "([^"]*)"$`, b.selectNotContains},

		// Radios
		{`^I choose "(.*?)"$`, b.choose},
		{`^The "(.*?)" option should be chosen$`, b.radioChosen},
		{`^The "(.*?)" option should not be chosen$`, b.radioNotChosen},

		// Alerts
		{`^I accept the alert$`, b.acceptAlert},
		{`^I dismiss the alert$`, b.dismissAlert},
		{`^I should see an alert with text "([^"]*)"$`, b.alertText},
		{`^I should not see an alert$`, b.noAlert},

		// Tooltips
		{`^I should see an element with tooltip "([^"]*)"$`, b.seeTooltip},
		{`^I should not see an element with tooltip "([^"]*)"$`, b.noTooltip},
		{`^I (?:click|press) the element with tooltip "([^"]*)"$`, b.pressTooltip},

		// Page
		{`^The page title should be "([^"]*)"$`, b.pageTitle},
		{`^I switch to the frame with id "([^"]*)"$`, b.switchToFrame},
		{`^I switch back to the main view$`, b.switchToMain},

		// CSS selectors
		{`^There should be an element matching \$\("(.*?)"\)$`, b.elementMatching},
		{`^There should be an element matching \$\("(.*?)"\) within (\d+) seconds?$`, b.elementMatchingWithin},
		{`^There should not be an element matching \$\("(.*?)"\)$`, b.noElementMatching},
		{`^There should not be an element matching \$\("(.*?)"\) within (\d+) seconds?$`, b.noElementMatchingWithin},
		{`^There should be exactly (\d+) elements? matching \$\("(.*?)"\)$`, b.exactlyMatching},
		{`^I fill in \$\("(.*?)"\) with "(.*?)"$`, b.fillInSelector},
		{`^I submit \$\("(.*?)"\)$`, b.submitSelector},
		{`^I check \$\("(.*?)"\)$`, b.checkSelector},
		{`^I click \$\("(.*?)"\)$`, b.clickSelector},
		{`^I follow the link \$\("(.*?)"\)$`, b.followSelector},
		{`^I select \$\("(.*?)"\)$`, b.selectSelector},
		{`^I switch to the frame \$\("(.*?)"\)$`, b.switchToFrameSelector},
	}
}
