package domain

// Dialog is the modal currently open on a dashboard.
type Dialog string

const (
	DialogNone              Dialog = "none"
	DialogSuspendOrComplete Dialog = "suspend_or_complete"
	DialogRating            Dialog = "rating"
	DialogResume            Dialog = "resume"
)

// DashboardState is an immutable snapshot of a dashboard for rendering.
type DashboardState struct {
	ProfileID      string        `json:"profileId"`
	Own            bool          `json:"own"`
	Role           string        `json:"role"`
	User           *UserInfo     `json:"user,omitempty"`
	Projects       []Project     `json:"projects"`
	Archive        []Project     `json:"archive,omitempty"`
	Dialog         Dialog        `json:"dialog"`
	Selected       *Project      `json:"selected,omitempty"`
	ResumeDeadline string        `json:"resumeDeadline,omitempty"`
	Submitting     bool          `json:"submitting"`
	Error          string        `json:"error,omitempty"`
	Policy         DashboardView `json:"policy"`
}
