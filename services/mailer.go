package services

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	"gwc-community-system/models"

	"gopkg.in/gomail.v2"
)

// RegistrationEmailData is the notification payload: the registration plus
// the tournament's display fields. Field names match the public
// /api/send-registration contract.
type RegistrationEmailData struct {
	TournamentTitle string              `json:"tournamentTitle"`
	TournamentDate  string              `json:"tournamentDate"`
	TournamentPrize string              `json:"tournamentPrize"`
	TeamName        string              `json:"teamName"`
	CaptainName     string              `json:"captainName"`
	CaptainEmail    string              `json:"captainEmail"`
	CaptainPhone    string              `json:"captainPhone"`
	TeamMembers     []models.TeamMember `json:"teamMembers"`
	AdditionalNotes string              `json:"additionalNotes,omitempty"`
}

// RegistrationNotifier is what the registration flow needs from the mailer.
// Stubbed in tests.
type RegistrationNotifier interface {
	SendRegistrationEmails(data RegistrationEmailData) error
}

// NopNotifier stands in when email is not configured: registrations are
// logged instead of mailed and reported as notify-failed to the caller.
type NopNotifier struct{}

func (NopNotifier) SendRegistrationEmails(data RegistrationEmailData) error {
	return fmt.Errorf("email not configured, registration for team %q not mailed", data.TeamName)
}

// Mailer sends the two fixed registration emails over plain SMTP. No queue,
// no retry, no delivery tracking. A failed send is reported to the caller
// and that is the end of it.
type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
}

// NewMailerFromEnv reads the EMAIL_* configuration. Returns an error when
// the transport cannot be configured; callers decide whether that is fatal.
func NewMailerFromEnv() (*Mailer, error) {
	host := os.Getenv("EMAIL_HOST")
	if host == "" {
		return nil, fmt.Errorf("EMAIL_HOST not set")
	}
	port := 587
	if p := os.Getenv("EMAIL_PORT"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid EMAIL_PORT %q", p)
		}
		port = n
	}
	user := os.Getenv("EMAIL_USER")
	pass := os.Getenv("EMAIL_PASS")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL not set")
	}

	d := gomail.NewDialer(host, port, user, pass)
	d.SSL = os.Getenv("EMAIL_SECURE") == "true" // true for 465

	return &Mailer{dialer: d, from: user, adminEmail: adminEmail}, nil
}

// SendRegistrationEmails renders and sends both notification emails: the
// admin heads-up and the captain confirmation. Both go out synchronously;
// the first failure aborts and is returned.
func (m *Mailer) SendRegistrationEmails(data RegistrationEmailData) error {
	adminBody, err := renderAdminEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render admin email: %w", err)
	}
	captainBody, err := renderCaptainEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render captain email: %w", err)
	}

	adminMsg := gomail.NewMessage()
	adminMsg.SetHeader("From", m.from)
	adminMsg.SetHeader("To", m.adminEmail)
	adminMsg.SetHeader("Subject", "New Tournament Registration: "+data.TournamentTitle)
	adminMsg.SetBody("text/html", adminBody)

	captainMsg := gomail.NewMessage()
	captainMsg.SetHeader("From", m.from)
	captainMsg.SetHeader("To", data.CaptainEmail)
	captainMsg.SetHeader("Subject", "Registration Confirmed: "+data.TournamentTitle)
	captainMsg.SetBody("text/html", captainBody)

	if err := m.dialer.DialAndSend(adminMsg); err != nil {
		return fmt.Errorf("failed to send admin notification: %w", err)
	}
	if err := m.dialer.DialAndSend(captainMsg); err != nil {
		return fmt.Errorf("failed to send captain confirmation: %w", err)
	}
	return nil
}

// SendPasswordResetEmail delivers the reset link for a requested password
// reset. Best effort, single attempt, same as the registration emails.
func (m *Mailer) SendPasswordResetEmail(to, resetLink string) error {
	body, err := renderTemplate(resetTemplate, struct{ ResetLink string }{resetLink})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your Gamers World Collective password")
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

func renderTemplate(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderAdminEmail(data RegistrationEmailData) (string, error) {
	return renderTemplate(adminTemplate, struct {
		RegistrationEmailData
		RegisteredAt string
	}{data, time.Now().Format("1/2/2006, 3:04:05 PM")})
}

func renderCaptainEmail(data RegistrationEmailData) (string, error) {
	return renderTemplate(captainTemplate, data)
}

var adminTemplate = template.Must(template.New("admin").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #E10600; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: white; padding: 30px; border: 1px solid #ddd; border-top: none; }
    .info-row { margin-bottom: 15px; padding-bottom: 15px; border-bottom: 1px solid #eee; }
    .label { font-weight: bold; color: #E10600; }
    .member { margin-bottom: 15px; padding: 15px; background: #f5f5f5; border-radius: 8px; }
    .footer { margin-top: 20px; padding-top: 20px; border-top: 2px solid #E10600; text-align: center; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1 style="margin: 0;">🎮 New Tournament Registration</h1>
    </div>
    <div class="content">
      <div class="info-row"><span class="label">Tournament:</span> {{.TournamentTitle}}</div>
      <div class="info-row"><span class="label">Date:</span> {{.TournamentDate}}</div>
      <div class="info-row"><span class="label">Prize Pool:</span> {{.TournamentPrize}}</div>

      <h2 style="color: #E10600; margin-top: 30px;">Team Information</h2>
      <div class="info-row"><span class="label">Team Name:</span> {{.TeamName}}</div>

      <h3 style="color: #E10600;">Captain Details</h3>
      <div class="info-row">
        <span class="label">Name:</span> {{.CaptainName}}<br/>
        <span class="label">Email:</span> {{.CaptainEmail}}<br/>
        <span class="label">Phone:</span> {{.CaptainPhone}}
      </div>

      <h3 style="color: #E10600;">Team Members</h3>
      {{range $i, $m := .TeamMembers}}
      <div class="member">
        <strong>Member {{inc $i}}:</strong><br/>
        Name: {{$m.Name}}<br/>
        Email: {{$m.Email}}<br/>
        Game Tag: {{$m.GameTag}}
      </div>
      {{end}}

      {{if .AdditionalNotes}}
      <h3 style="color: #E10600;">Additional Notes</h3>
      <div class="member">{{.AdditionalNotes}}</div>
      {{end}}

      <div class="footer">
        <p>Registered at: {{.RegisteredAt}}</p>
        <p>Please review and approve this registration in your admin panel.</p>
      </div>
    </div>
  </div>
</body>
</html>`))

var captainTemplate = template.Must(template.New("captain").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #E10600; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: white; padding: 30px; border: 1px solid #ddd; border-top: none; }
    .info-box { background: #f5f5f5; padding: 15px; border-radius: 8px; margin: 20px 0; }
    .footer { margin-top: 20px; padding-top: 20px; border-top: 2px solid #E10600; text-align: center; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1 style="margin: 0;">✅ Registration Confirmed!</h1>
    </div>
    <div class="content">
      <p>Dear {{.CaptainName}},</p>

      <p>Thank you for registering your team <strong>{{.TeamName}}</strong> for the <strong>{{.TournamentTitle}}</strong>!</p>

      <div class="info-box">
        <h3 style="color: #E10600; margin-top: 0;">Tournament Details</h3>
        <strong>Date:</strong> {{.TournamentDate}}<br/>
        <strong>Prize Pool:</strong> {{.TournamentPrize}}
      </div>

      <p>Your registration is currently <strong>pending review</strong>. We will send you an email once your registration has been approved.</p>

      <p>In the meantime, please ensure all team members are prepared and available for the tournament date.</p>

      <div class="footer">
        <p>If you have any questions, please reply to this email.</p>
        <p><strong>Good luck and see you in the arena! 🎮</strong></p>
      </div>
    </div>
  </div>
</body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #E10600;">Password Reset</h2>
    <p>We received a request to reset your password. Click the link below to choose a new one. The link expires in 24 hours.</p>
    <p><a href="{{.ResetLink}}" style="color: #E10600;">Reset your password</a></p>
    <p>If you did not request this, you can safely ignore this email.</p>
  </div>
</body>
</html>`))
