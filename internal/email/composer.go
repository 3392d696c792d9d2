package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/jwalitptl/salon-booking/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Business identifies the studio in outgoing mail.
type Business struct {
	Name  string
	Email string
	Phone string
}

// Composer renders the booking emails.
type Composer struct {
	business Business
	loc      *time.Location
}

func NewComposer(business Business, loc *time.Location) *Composer {
	if loc == nil {
		loc = time.Local
	}
	return &Composer{business: business, loc: loc}
}

type view struct {
	Business    Business
	Booking     *model.Booking
	Service     *model.Service
	Date        string
	Time        string
	Price       string
	Allergies   string
	Notes       string
	IsNewClient string
}

func (c *Composer) view(b *model.Booking, svc *model.Service) view {
	start, _ := b.Interval(c.loc)
	v := view{
		Business:    c.business,
		Booking:     b,
		Service:     svc,
		Date:        start.Format("Monday, January 2, 2006"),
		Time:        start.Format("3:04 PM"),
		Price:       "$" + strconv.FormatFloat(svc.Price, 'f', -1, 64),
		IsNewClient: "No",
	}
	if b.Allergies != nil {
		v.Allergies = *b.Allergies
	}
	if b.Notes != nil {
		v.Notes = *b.Notes
	}
	if b.IsNewClient {
		v.IsNewClient = "Yes"
	}
	return v
}

// ClientConfirmation is sent to the client after a booking request.
func (c *Composer) ClientConfirmation(b *model.Booking, svc *model.Service) (*Message, error) {
	return c.render("client_confirmation.html", []string{b.Email},
		fmt.Sprintf("Booking Confirmation - %s", c.business.Name), b, svc)
}

// SalonNotification tells the studio about a new booking request.
func (c *Composer) SalonNotification(b *model.Booking, svc *model.Service) (*Message, error) {
	return c.render("salon_notification.html", []string{c.business.Email},
		fmt.Sprintf("New Booking Request - %s", b.Name), b, svc)
}

// Reminder is sent the day before the appointment.
func (c *Composer) Reminder(b *model.Booking, svc *model.Service) (*Message, error) {
	return c.render("reminder.html", []string{b.Email},
		fmt.Sprintf("Reminder: your %s appointment tomorrow", c.business.Name), b, svc)
}

func (c *Composer) render(name string, to []string, subject string, b *model.Booking, svc *model.Service) (*Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, c.view(b, svc)); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return &Message{To: to, Subject: subject, HTML: buf.String()}, nil
}
