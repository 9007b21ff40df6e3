package pages

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/wanmail/pageobject"
)

// Home page locators.
var (
	MoreButton    = pageobject.XPath("//body[1]/nav[1]/div[2]/div[1]/ul[1]/li[6]/a[1]/span[1]")
	CareersButton = pageobject.XPath("//body/nav[@id='navigation']/div[2]/div[1]/ul[1]/li[6]/div[1]/div[1]/div[3]/div[1]/a[1]")
)

// HomePage is the landing page with the top navigation bar.
type HomePage struct {
	s *pageobject.Session
}

// NewHomePage returns the home page of s. It does not navigate.
func NewHomePage(s *pageobject.Session) *HomePage {
	return &HomePage{s: s}
}

// Open navigates to baseURL.
func (p *HomePage) Open(baseURL string) error {
	return p.s.Open(baseURL)
}

// Check waits until the More menu and its Careers entry are visible.
func (p *HomePage) Check() error {
	return checkVisible(p.s, "home page", MoreButton, CareersButton)
}

// ClickMoreButton opens the More menu.
func (p *HomePage) ClickMoreButton() error {
	glog.V(1).Info("Opening the More menu")
	if err := click(p.s, MoreButton); err != nil {
		return fmt.Errorf("more button: %w", err)
	}
	return nil
}

// ClickCareersButton follows the Careers entry of the More menu.
func (p *HomePage) ClickCareersButton() (*CareersPage, error) {
	glog.V(1).Info("Following the Careers link")
	if err := click(p.s, CareersButton); err != nil {
		return nil, fmt.Errorf("careers button: %w", err)
	}
	return NewCareersPage(p.s), nil
}
