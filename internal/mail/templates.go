package mail

import (
	"fmt"

	"github.com/campusworks/letterflow/internal/letters"
)

const reminderBody = `Dear %s,

This is a reminder that the following letter has been pending your approval for more than 2 days.

Letter Details:
  - Letter ID: %s
  - Subject: %s
  - Department: %s
  - Classification: %s
  - Current Status: %s
  - Submission Date: %s

Kindly review and approve the letter at your earliest convenience to ensure smooth workflow processing.

Thank you for your attention.

Warm regards,
Letterflow Automated Workflow System
`

const assignmentBody = `Dear %s,

A new letter has been routed to you for review and approval.

Letter Details:
  - Letter ID: %s
  - Subject: %s
  - Department: %s
  - Classification: %s
  - Current Status: %s
  - Submission Date: %s

Please log in to the dashboard to review and take action on this letter.

Thank you for your prompt attention.

Warm regards,
Letterflow Automated Workflow System
`

// Compose builds the message subject and body for a letter. Overdue letters
// get the reminder template; everything else gets the assignment template.
func Compose(letter *letters.Letter) (subject, body string) {
	template := assignmentBody
	subject = fmt.Sprintf("New Letter Assigned for Your Review (ID: %s)", letter.ID)

	if letter.Status == letters.StatusOverdue {
		template = reminderBody
		subject = fmt.Sprintf("Reminder: Letter %s is Overdue for Approval", letter.ID)
	}

	body = fmt.Sprintf(template,
		orUnknown(string(letter.Stage)),
		letter.ID,
		orUnknown(letter.Subject),
		orUnknown(letter.Dept),
		orUnknown(string(letter.Classification)),
		orUnknown(string(letter.Status)),
		letter.Date.Format("2006-01-02"),
	)

	return subject, body
}

func orUnknown(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
