/*
Package pageobject provides a page-object layer over a Selenium/WebDriver
client.

A Session wraps a selenium.WebDriver. Locating through it yields Elements,
which embed the native selenium.WebElement and add explicit waits,
composite gestures (double and right clicks, offset clicks, drags, hovers,
key shortcuts) and fluent chaining. Every chainable operation returns the
same Element, or a new Element for a newly located handle, so page objects
never handle raw elements.

Example usage:

	// Errors are ignored for brevity.

	wd, _ := selenium.NewRemote(selenium.Capabilities{"browserName": "chrome"}, "")
	s := pageobject.NewSession(wd, pageobject.WithTimeout(30*time.Second))
	defer s.Quit()

	s.Open("https://example.com/login")

	user, _ := s.WaitVisible(pageobject.Name("user"))
	user.Clear()
	user.SendKeys("gopher", 50*time.Millisecond)

	err := s.Chain(pageobject.ID("submit")).
		WaitClickable(0).
		Click(0).
		Err()

Use package browser to start a local driver service and connect to it, and
package actions to build gestures that Element does not provide.
*/
package pageobject
