// Package notify renders reminder digests and delivers them over the channels a user opted into.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"life-tasks/internal/model"
)

// Digest is the set of tasks one user is reminded about in a sweep.
type Digest struct {
	User        model.User
	Tasks       []model.Task
	GeneratedAt time.Time
	// DashboardURL is linked at the bottom of the message when set.
	DashboardURL string
}

// Notifier delivers a digest over one channel.
type Notifier interface {
	Channel() string
	// Enabled reports whether the user opted into this channel and can be reached on it.
	Enabled(user model.User) bool
	Send(ctx context.Context, d Digest) error
}

const Subject = "Task Reminders: Actions Required Soon"

func dueText(task model.Task, loc *time.Location) string {
	if task.DueDate == nil {
		return "No due date"
	}
	return "Due: " + task.DueDate.In(loc).Format("2006-01-02")
}

func location(d Digest) *time.Location {
	if d.GeneratedAt.IsZero() {
		return time.Local
	}
	return d.GeneratedAt.Location()
}

// RenderText builds the plain text body.
func RenderText(d Digest) string {
	loc := location(d)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hello %s,\n\n", d.User.Name))
	sb.WriteString("Here are your upcoming tasks that need attention:\n\n")
	for _, task := range d.Tasks {
		sb.WriteString(fmt.Sprintf("- %s (%s) - Priority: %s\n", strings.TrimSpace(task.Title), dueText(task, loc), task.Priority))
	}
	sb.WriteString("\nVisit your task dashboard to see more details and mark tasks as complete.\n")
	if d.DashboardURL != "" {
		sb.WriteString(d.DashboardURL + "\n")
	}
	sb.WriteString("\nBest regards,\nYour Life Task Assistant")
	return sb.String()
}

func priorityColor(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "red"
	case model.PriorityMedium:
		return "orange"
	default:
		return "green"
	}
}

// RenderHTML builds the email HTML body.
func RenderHTML(d Digest) string {
	loc := location(d)
	var sb strings.Builder
	sb.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	sb.WriteString(fmt.Sprintf("<h2>Hello %s,</h2>", html.EscapeString(d.User.Name)))
	sb.WriteString("<p>Here are your upcoming tasks that need attention:</p><ul>")
	for _, task := range d.Tasks {
		sb.WriteString(fmt.Sprintf(`<li><strong>%s</strong> (%s) - Priority: <span style="color: %s">%s</span></li>`,
			html.EscapeString(strings.TrimSpace(task.Title)), dueText(task, loc), priorityColor(task.Priority), task.Priority))
	}
	sb.WriteString("</ul>")
	if d.DashboardURL != "" {
		sb.WriteString(fmt.Sprintf(`<p>Visit your <a href="%s">task dashboard</a> to see more details and mark tasks as complete.</p>`, html.EscapeString(d.DashboardURL)))
	}
	sb.WriteString("<p>Best regards,<br>Your Life Task Assistant</p></div>")
	return sb.String()
}

// RenderTelegram builds a Telegram HTML message.
func RenderTelegram(d Digest) string {
	loc := location(d)
	var sb strings.Builder
	sb.WriteString("📋 <b>Task reminders</b>\n")
	sb.WriteString(fmt.Sprintf("🗓 %s\n\n", d.GeneratedAt.In(loc).Format("2006-01-02")))
	for _, task := range d.Tasks {
		icon := "🟢"
		if task.DueDate != nil {
			due := task.DueDate.In(loc)
			switch {
			case d.GeneratedAt.After(due):
				icon = "⚠️"
			case due.Sub(d.GeneratedAt) <= 48*time.Hour:
				icon = "⏳"
			}
		}
		sb.WriteString(fmt.Sprintf("%s %s <i>(%s)</i>\n", icon, html.EscapeString(strings.TrimSpace(task.Title)), task.Priority))
		sb.WriteString(fmt.Sprintf("   ⏰ %s\n", dueText(task, loc)))
	}
	return strings.TrimSpace(sb.String())
}
