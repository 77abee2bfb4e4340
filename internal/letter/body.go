// Package letter holds the fixed offer letter wording.
package letter

import "fmt"

const companyName = "Infiedge Software"

// Fixed strings printed around the body
const (
	ClosingSalute    = "Sincerely,"
	SignatureCaption = "Authorized Signature"
	Signatory        = companyName + " (CEO)"
)

const bodyTemplate = `
We are pleased to extend an offer for you to join Infiedge Software as a %[1]s.
Your internship will commence on %[2]s and conclude on %[3]s.

At Infiedge, we strive to nurture talent by providing hands-on exposure to real-world projects.
During your internship, you will work closely with our experienced team,
who will guide you through various tasks and ensure a meaningful learning experience.

You are expected to maintain a professional attitude and adhere to the guidelines provided during the Internship.
Your commitment to excellence will contribute to both your personal growth and the ongoing success of Infiedge Software.

Please confirm your acceptance of this offer by signing and returning a copy of this letter to us by %[4]s.
Upon successful completion of your internship, you will receive a certificate of completion and recognition for your contributions.

We are excited to welcome you to the Infiedge Software family!
`

// Body returns the letter body with the four recipient values substituted.
// All arguments are expected to be formatted already.
func Body(designation, startDate, endDate, confirmationDeadline string) string {
	return fmt.Sprintf(bodyTemplate, designation, startDate, endDate, confirmationDeadline)
}

// Header returns the three bold lines printed above the body
func Header(issueDate, uniqueID, name string) [3]string {
	return [3]string{
		"Date: " + issueDate,
		"Unique ID: " + uniqueID,
		"Dear " + name + ",",
	}
}
