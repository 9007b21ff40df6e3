// Package pages holds the page objects of the useinsider.com site and the
// scenarios that drive them.
package pages

import (
	"fmt"

	"github.com/wanmail/pageobject"
)

// DefaultBaseURL is the site the page objects describe.
const DefaultBaseURL = "https://useinsider.com/"

// checkVisible waits for every locator in turn.
func checkVisible(s *pageobject.Session, page string, locs ...pageobject.Locator) error {
	for _, loc := range locs {
		if _, err := s.WaitVisible(loc); err != nil {
			return fmt.Errorf("%s isn't visible: %w", page, err)
		}
	}
	return nil
}

// click waits for loc to be clickable and clicks it after the session's
// action delay.
func click(s *pageobject.Session, loc pageobject.Locator) error {
	el, err := s.WaitClickable(loc)
	if err != nil {
		return err
	}
	_, err = el.Click(s.ActionDelay())
	return err
}
