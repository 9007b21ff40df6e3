package pages

import (
	"github.com/wanmail/pageobject"
)

// LocationFields matches the location inputs of the job search form.
var LocationFields = pageobject.XPath("//input[contains(@class, 'location')]")

// CareersPage lists open positions.
type CareersPage struct {
	s *pageobject.Session
}

// NewCareersPage returns the careers page of s.
func NewCareersPage(s *pageobject.Session) *CareersPage {
	return &CareersPage{s: s}
}

// Check waits until the navigation's Careers entry and a location field are
// visible.
func (p *CareersPage) Check() error {
	return checkVisible(p.s, "careers page", CareersButton, LocationFields)
}

// LocationFields returns every location input on the page.
func (p *CareersPage) LocationFields() ([]*pageobject.Element, error) {
	return p.s.LocateAll(LocationFields)
}
