// internal/pages/contact.go
package pages

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hbarrow/pandasuite/internal/browser"
)

var (
	contactForm = browser.ChainOf(
		browser.CSS("contact form", "form.contact-form"),
		browser.CSS("contact form (wpcf7)", "form.wpcf7-form"),
		browser.XPath("contact form fallback", "//main//form"),
	)
	contactNameField = browser.ChainOf(
		browser.CSS("name field", "input[name*='name' i]"),
		browser.XPath("name field fallback", "//form//input[@type='text'][1]"),
	)
	contactEmailField = browser.ChainOf(
		browser.CSS("email field", "input[type='email']"),
		browser.CSS("email field by name", "input[name*='email' i]"),
	)
	contactMessageField = browser.ChainOf(
		browser.CSS("message field", "textarea"),
	)
	contactSubmit = browser.ChainOf(
		browser.CSS("submit button", "button[type='submit']"),
		browser.CSS("submit button (input)", "input[type='submit']"),
	)
	contactSuccessMessage = browser.ChainOf(
		browser.CSS("success message", ".contact-form-success"),
		browser.CSS("success message (wpcf7)", ".wpcf7-response-output.wpcf7-mail-sent-ok"),
		browser.XPath("success message fallback", "//*[contains(@class,'success')][contains(., 'message') or contains(., 'Message') or contains(., 'thank') or contains(., 'Thank')]"),
	)
	contactErrorMessage = browser.ChainOf(
		browser.CSS("error message", ".contact-form-error"),
		browser.CSS("error message (wpcf7)", ".wpcf7-response-output.wpcf7-validation-errors"),
	)
	contactEmailValidation = browser.ChainOf(
		browser.CSS("email validation", "input[type='email'] ~ .wpcf7-not-valid-tip"),
		browser.CSS("email validation (grunion)", ".form-error-message[data-field='email'], .grunion-field-email-wrap .form-error-message"),
	)
	contactMessageValidation = browser.ChainOf(
		browser.CSS("message validation", "textarea ~ .wpcf7-not-valid-tip"),
		browser.CSS("message validation (grunion)", ".form-error-message[data-field='message'], .grunion-field-textarea-wrap .form-error-message"),
	)
)

// ContactPage models the blog's contact page.
type ContactPage struct {
	base
}

// NewContactPage binds a contact page object to a session.
func NewContactPage(session *browser.Session, baseURL string, logger *zap.Logger) *ContactPage {
	return &ContactPage{base: newBase(session, baseURL, logger, "contact_page")}
}

// Open navigates straight to the contact page.
func (p *ContactPage) Open(ctx context.Context) error {
	return p.session.Navigate(ctx, p.resolve("contact/"))
}

// IsLoaded reports whether the contact page rendered: the URL mentions
// "contact" and either the form itself or its name and email fields are
// visible. Never returns an error.
func (p *ContactPage) IsLoaded(ctx context.Context) bool {
	if !p.urlContains(ctx, "contact") {
		return false
	}
	if p.it.IsDisplayed(ctx, contactForm) {
		return true
	}
	return p.it.IsDisplayed(ctx, contactNameField) && p.it.IsDisplayed(ctx, contactEmailField)
}

// HasField reports whether a named part of the form is visible.
func (p *ContactPage) HasField(ctx context.Context, field string) (bool, error) {
	switch field {
	case "name":
		return p.it.IsDisplayed(ctx, contactNameField), nil
	case "email":
		return p.it.IsDisplayed(ctx, contactEmailField), nil
	case "message":
		return p.it.IsDisplayed(ctx, contactMessageField), nil
	case "form":
		return p.it.IsDisplayed(ctx, contactForm), nil
	default:
		return false, fmt.Errorf("unknown contact form field %q", field)
	}
}

// EnterName fills the name field.
func (p *ContactPage) EnterName(ctx context.Context, name string) error {
	if err := p.it.Type(ctx, contactNameField, name); err != nil {
		return fmt.Errorf("could not fill name: %w", err)
	}
	return nil
}

// EnterEmail fills the email field.
func (p *ContactPage) EnterEmail(ctx context.Context, email string) error {
	if err := p.it.Type(ctx, contactEmailField, email); err != nil {
		return fmt.Errorf("could not fill email: %w", err)
	}
	return nil
}

// EnterMessage fills the message field.
func (p *ContactPage) EnterMessage(ctx context.Context, message string) error {
	if err := p.it.Type(ctx, contactMessageField, message); err != nil {
		return fmt.Errorf("could not fill message: %w", err)
	}
	return nil
}

// FillForm populates the contact form without submitting it. An empty
// message leaves the message field alone.
func (p *ContactPage) FillForm(ctx context.Context, name, email, message string) error {
	p.logger.Info("Filling contact form.", zap.String("name", name))
	if err := p.EnterName(ctx, name); err != nil {
		return err
	}
	if err := p.EnterEmail(ctx, email); err != nil {
		return err
	}
	if message != "" {
		return p.EnterMessage(ctx, message)
	}
	return nil
}

// Submit sends the contact form.
func (p *ContactPage) Submit(ctx context.Context) error {
	if err := p.it.Click(ctx, contactSubmit); err != nil {
		return fmt.Errorf("could not submit contact form: %w", err)
	}
	return p.it.WaitReady(ctx)
}

// FillAndSubmit fills the whole form and sends it.
func (p *ContactPage) FillAndSubmit(ctx context.Context, name, email, message string) error {
	if err := p.FillForm(ctx, name, email, message); err != nil {
		return err
	}
	return p.Submit(ctx)
}

// IsSuccessDisplayed reports whether the form acknowledged the
// submission.
func (p *ContactPage) IsSuccessDisplayed(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, contactSuccessMessage)
}

// IsErrorDisplayed reports whether the form rejected the submission.
func (p *ContactPage) IsErrorDisplayed(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, contactErrorMessage)
}

// SuccessText returns the acknowledgement text shown after a successful
// submission.
func (p *ContactPage) SuccessText(ctx context.Context) (string, error) {
	return p.it.ReadText(ctx, contactSuccessMessage)
}

// ErrorText returns the rejection text shown after a failed submission.
func (p *ContactPage) ErrorText(ctx context.Context) (string, error) {
	return p.it.ReadText(ctx, contactErrorMessage)
}

// HasEmailValidationError reports whether the email field carries a
// field-level validation message.
func (p *ContactPage) HasEmailValidationError(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, contactEmailValidation)
}

// HasMessageValidationError reports whether the message field carries a
// field-level validation message.
func (p *ContactPage) HasMessageValidationError(ctx context.Context) bool {
	return p.it.IsDisplayed(ctx, contactMessageValidation)
}
