package pageobject

import (
	"fmt"

	"github.com/tebeka/selenium"
)

// Locator identifies elements by a strategy and an expression. Strategies
// are the selenium.By* constants.
type Locator struct {
	By    string
	Value string
}

// ID locates elements by their id attribute.
func ID(id string) Locator { return Locator{selenium.ByID, id} }

// XPath locates elements with an XPath expression.
func XPath(expr string) Locator { return Locator{selenium.ByXPATH, expr} }

// CSS locates elements with a CSS selector.
func CSS(selector string) Locator { return Locator{selenium.ByCSSSelector, selector} }

// LinkText locates anchors by their exact text.
func LinkText(text string) Locator { return Locator{selenium.ByLinkText, text} }

// PartialLinkText locates anchors whose text contains text.
func PartialLinkText(text string) Locator { return Locator{selenium.ByPartialLinkText, text} }

// Name locates elements by their name attribute.
func Name(name string) Locator { return Locator{selenium.ByName, name} }

// TagName locates elements by tag.
func TagName(tag string) Locator { return Locator{selenium.ByTagName, tag} }

// ClassName locates elements by class.
func ClassName(class string) Locator { return Locator{selenium.ByClassName, class} }

// IsZero reports whether l is the zero Locator.
func (l Locator) IsZero() bool {
	return l.By == "" && l.Value == ""
}

func (l Locator) String() string {
	return fmt.Sprintf("(%s, %q)", l.By, l.Value)
}
