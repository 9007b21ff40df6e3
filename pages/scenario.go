package pages

import (
	"time"

	"github.com/golang/glog"

	"github.com/wanmail/pageobject"
)

// settle is how long scenarios let a navigation finish before checking
// the next page.
var settle = 2 * time.Second

// CheckMoreButton opens the home page, follows More and then Careers, and
// checks the careers page loaded. The caller owns s and must Quit it.
func CheckMoreButton(s *pageobject.Session, baseURL string) (*CareersPage, error) {
	home := NewHomePage(s)
	if err := home.Open(baseURL); err != nil {
		return nil, err
	}
	if err := home.ClickMoreButton(); err != nil {
		return nil, err
	}
	careers, err := home.ClickCareersButton()
	if err != nil {
		return nil, err
	}
	time.Sleep(settle)
	if err := careers.Check(); err != nil {
		return nil, err
	}
	glog.Infof("Careers page reached from %s", baseURL)
	return careers, nil
}
