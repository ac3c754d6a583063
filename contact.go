package lodge

import (
	"html"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const contactThanks = "Thank you! We will get back to you within a day."

var stripMarkup = bluemonday.StrictPolicy()

// clean removes any markup from user input and trims surrounding space.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripMarkup.Sanitize(s)))
}

func contactFormFrom(c echo.Context) ContactForm {
	return ContactForm{
		Name:     clean(c.FormValue("name")),
		Email:    clean(c.FormValue("email")),
		Phone:    clean(c.FormValue("phone")),
		Subject:  clean(c.FormValue("subject")),
		Message:  clean(c.FormValue("message")),
		Honeypot: c.FormValue("website"),
	}
}

// Validate fills f.Errors and reports whether the form is acceptable.
func (f *ContactForm) Validate() bool {
	f.Errors = map[string]string{}
	n := utf8.RuneCountInString
	switch {
	case f.Name == "":
		f.Errors["name"] = "Please tell us your name."
	case n(f.Name) > 100:
		f.Errors["name"] = "Name must be at most 100 characters."
	}
	if f.Email == "" {
		f.Errors["email"] = "Please give an email address we can reply to."
	} else if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		f.Errors["email"] = "That email address does not look right."
	}
	if n(f.Phone) > 30 {
		f.Errors["phone"] = "Phone must be at most 30 characters."
	}
	if n(f.Subject) > 150 {
		f.Errors["subject"] = "Subject must be at most 150 characters."
	}
	switch l := n(f.Message); {
	case l < 10:
		f.Errors["message"] = "Message must be at least 10 characters."
	case l > 5000:
		f.Errors["message"] = "Message must be at most 5000 characters."
	}
	return len(f.Errors) == 0
}

func (a *App) handleContact(c echo.Context) error {
	p := a.page(c, "Contact", "Write to the lodge about stays, workshops and directions.")
	return Render(c, a.Views.Contact(p, ContactForm{}, popFlash(c), CsrfToken(c)))
}

func (a *App) handleContactSubmit(c echo.Context) error {
	ip := c.RealIP()
	if !a.contactLimiter.Allow(ip) {
		return c.String(http.StatusTooManyRequests, "Too many messages. Try again later.")
	}
	form := contactFormFrom(c)

	// Bots fill the hidden field; they get the normal success response.
	if form.Honeypot != "" {
		a.Logger.Info("contact honeypot triggered", zap.String("ip_hash", a.hashIP(ip)))
		return a.contactDone(c)
	}

	if !form.Validate() {
		p := a.page(c, "Contact", "")
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Contact(p, form, "", CsrfToken(c)))
	}

	msg := ContactMessage{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Subject:   form.Subject,
		Message:   form.Message,
		IPHash:    a.hashIP(ip),
		CreatedAt: time.Now(),
	}
	if err := a.Store.SaveContactMessage(c.Request().Context(), msg); err != nil {
		return err
	}
	a.Logger.Info("contact message stored", zap.String("id", msg.ID))
	return a.contactDone(c)
}

func (a *App) contactDone(c echo.Context) error {
	if err := addFlash(c, contactThanks); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/contact")
}
