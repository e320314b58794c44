package models

import "time"

// ApplicationStatus is the processing stage of an application or renewal.
// The applicant never changes it; the back office advances it.
type ApplicationStatus string

const (
	StatusProcessing     ApplicationStatus = "Processing"
	StatusUnderReview    ApplicationStatus = "Under Review"
	StatusApproved       ApplicationStatus = "Approved"
	StatusRejected       ApplicationStatus = "Rejected"
	StatusReadyForPickup ApplicationStatus = "Ready for Pickup"
	StatusDispatched     ApplicationStatus = "Dispatched"
	StatusCompleted      ApplicationStatus = "Completed"
)

// statusMessages maps every known status to the message shown to the
// applicant on the tracking page.
var statusMessages = map[ApplicationStatus]string{
	StatusProcessing:     "Your application has been received and is being processed.",
	StatusUnderReview:    "Your application is under review by the Department of Home Affairs.",
	StatusApproved:       "Your application has been approved. Your passport is being printed.",
	StatusRejected:       "Your application was rejected. Please visit your district office for details.",
	StatusReadyForPickup: "Your passport is ready for pickup at your district office.",
	StatusDispatched:     "Your passport has been dispatched to your district office.",
	StatusCompleted:      "Your passport has been collected. This application is complete.",
}

// Message returns the human-readable message for a status. Unknown values
// fall back to the generic processing message so the mapping is total.
func (s ApplicationStatus) Message() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return statusMessages[StatusProcessing]
}

// StatusView is the read-only projection returned by the status lookup
// endpoint. It is derived, never stored.
type StatusView struct {
	Reference   string            `json:"reference"`
	Status      ApplicationStatus `json:"status"`
	Message     string            `json:"message"`
	SubmittedAt time.Time         `json:"submitted_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
