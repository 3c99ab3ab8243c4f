package controller

import "github.com/kdduha/kolam-knowledge/internal/models"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type AvailabilityState int

const (
	Unchecked AvailabilityState = iota
	Available
	Unavailable
)

// Availability is the advisory result of the one-time health probe.
type Availability struct {
	State   AvailabilityState
	Message string
}

func (a Availability) Checked() bool {
	return a.State != Unchecked
}

type ImageDisplay int

const (
	// ImageNone means the answer carried no image.
	ImageNone ImageDisplay = iota
	ImageRendered
	// ImageUndisplayable means an image was produced but failed to render.
	ImageUndisplayable
)

func (d ImageDisplay) String() string {
	switch d {
	case ImageRendered:
		return "rendered"
	case ImageUndisplayable:
		return "undisplayable"
	default:
		return "none"
	}
}

// Snapshot is a point-in-time copy of controller state.
type Snapshot struct {
	Query        string
	Phase        Phase
	Error        string
	Answer       *models.KnowledgeAnswer
	ImageFailed  bool
	Availability Availability
	// Seq is the latest issued submission number, AnswerSeq the one that
	// produced Answer.
	Seq       uint64
	AnswerSeq uint64
}

func (s Snapshot) Loading() bool {
	return s.Phase == PhaseSubmitting
}

// ImageDisplay is meaningful only when Answer is set.
func (s Snapshot) ImageDisplay() ImageDisplay {
	switch {
	case s.Answer == nil || !s.Answer.HasImage():
		return ImageNone
	case s.ImageFailed:
		return ImageUndisplayable
	default:
		return ImageRendered
	}
}

func (s Snapshot) View() models.SessionView {
	v := models.SessionView{
		Query:   s.Query,
		Phase:   s.Phase.String(),
		Loading: s.Loading(),
		Error:   s.Error,
		APIStatus: models.APIStatus{
			Checked:   s.Availability.Checked(),
			Available: s.Availability.State == Available,
			Message:   s.Availability.Message,
		},
		Seq: s.Seq,
	}
	if s.Answer != nil {
		a := *s.Answer
		v.Response = &a
		v.ImageDisplay = s.ImageDisplay().String()
	}
	return v
}
