package notify

import (
	"fmt"
	"html/template"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

var templates = map[Kind]*template.Template{
	KindReminder: template.Must(template.New("reminder").Parse(layoutHead + reminderBody + layoutFoot)),
	KindWelcome:  template.Must(template.New("welcome").Parse(layoutHead + welcomeBody + layoutFoot)),
	KindSummary:  template.Must(template.New("summary").Parse(layoutHead + summaryBody + layoutFoot)),
}

type templateData struct {
	Name         string
	AppURL       string
	Title        string
	Date         string
	Time         string
	Link         string
	MinutesUntil int
	Duration     string
	SummaryText  string
	KeyPoints    []string
	ActionItems  []string
}

func subjectFor(msg Message) string {
	switch msg.Kind {
	case KindReminder:
		return fmt.Sprintf("⏰ Reminder: %s in %d minutes", msg.Meeting.Title, msg.MinutesUntil)
	case KindSummary:
		return fmt.Sprintf("📊 Meeting Summary: %s", msg.Meeting.Title)
	}
	return "🎉 Welcome to MeetMind!"
}

func dataFor(msg Message, appURL string) templateData {
	d := templateData{
		Name:         msg.Name,
		AppURL:       appURL,
		MinutesUntil: msg.MinutesUntil,
	}
	if d.Name == "" {
		d.Name = "there"
	}
	if m := msg.Meeting; m != nil {
		d.Title = m.Title
		d.Date = m.Date
		d.Time = m.Time
		d.Link = m.Link()
	}
	if s := msg.Summary; s != nil {
		d.Duration = s.Duration
		d.KeyPoints = s.KeyPoints
		for _, item := range s.ActionItems {
			d.ActionItems = append(d.ActionItems, item.Text)
		}
		for _, entry := range s.Transcript {
			if entry.Speaker == entities.BotSpeaker {
				d.SummaryText = entry.Text
				break
			}
		}
	}
	return d
}

const layoutHead = `<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #3b82f6 0%, #8b5cf6 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
    .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; }
    .card { background: #f9fafb; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #3b82f6; }
    .btn { display: inline-block; background: #2563eb; color: white; padding: 14px 28px; text-decoration: none; border-radius: 6px; margin-top: 20px; font-weight: 600; }
    .footer { text-align: center; color: #6b7280; font-size: 14px; margin-top: 20px; padding: 20px; }
  </style>
</head>
<body>
  <div class="container">
`

const layoutFoot = `
    <div class="footer">MeetMind</div>
  </div>
</body>
</html>
`

const reminderBody = `
    <div class="header"><h1>🔔 MeetMind Reminder</h1></div>
    <div class="content">
      <p>Hi {{.Name}},</p>
      <p>Your meeting starts in <strong>{{.MinutesUntil}} minutes</strong>.</p>
      <div class="card">
        <h2>{{.Title}}</h2>
        <div><strong>Date:</strong> {{.Date}}</div>
        <div><strong>Time:</strong> {{.Time}}</div>
      </div>
      {{if .Link}}<a class="btn" href="{{.Link}}">Join Meeting</a>{{end}}
    </div>
`

const welcomeBody = `
    <div class="header"><h1>🎉 Welcome to MeetMind</h1></div>
    <div class="content">
      <p>Hi {{.Name}},</p>
      <p>MeetMind joins your meetings, records them and sends you a summary with key points and action items.</p>
      {{if .AppURL}}<a class="btn" href="{{.AppURL}}">Open MeetMind</a>{{end}}
    </div>
`

const summaryBody = `
    <div class="header"><h1>📊 Meeting Summary</h1></div>
    <div class="content">
      <p>Hi {{.Name}},</p>
      <div class="card">
        <h2>{{.Title}}</h2>
        <div><strong>Date:</strong> {{.Date}}</div>
        <div><strong>Duration:</strong> {{.Duration}}</div>
      </div>
      {{if .SummaryText}}<h3>Summary</h3><p>{{.SummaryText}}</p>{{end}}
      {{if .KeyPoints}}<h3>Key Points</h3><ul>{{range .KeyPoints}}<li>{{.}}</li>{{end}}</ul>{{end}}
      {{if .ActionItems}}<h3>Action Items</h3><ul>{{range .ActionItems}}<li>{{.}}</li>{{end}}</ul>{{end}}
      {{if .AppURL}}<a class="btn" href="{{.AppURL}}">View in MeetMind</a>{{end}}
    </div>
`
