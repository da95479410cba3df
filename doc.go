/*
Package webdriver provides godog step definitions that drive a web browser
through a Selenium WebDriver session.

Sentences such as

	When I fill in "Name" with "Bob"
	And I press "Save"
	Then I should see "Welcome, Bob"

are translated into element lookups and actions on a selenium.WebDriver.
Fields are found by id, name, label text or placeholder; buttons by id, name
or caption. Steps ending in "within N seconds" poll the page until the
condition holds or the time runs out.

The profile subpackage opens the WebDriver session from a YAML file of
named browser profiles, honoring the WEBDRIVER, WEBDRIVER_HUB and
WEBDRIVER_HOST environment variables.

Example usage:

	func TestFeatures(t *testing.T) {
		wd, err := profile.Open("browsers.yaml", "firefox")
		if err != nil {
			t.Fatal(err)
		}
		defer wd.Quit()

		b, err := webdriver.New(wd, webdriver.BaseURL("http://localhost:8080"))
		if err != nil {
			t.Fatal(err)
		}
		suite := godog.TestSuite{
			ScenarioInitializer: b.InitializeScenario,
			Options: &godog.Options{
				Format:   "pretty",
				Paths:    []string{"features"},
				TestingT: t,
			},
		}
		if suite.Run() != 0 {
			t.Fatal("feature tests failed")
		}
	}
*/
package webdriver
