package media

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	TimeUpdate EventKind = iota
	DurationChange
	Playing
	Paused
	Ended
	Waiting
	CanPlay
	VolumeChange
	RateChange
	Error
	Progress
	EnterPictureInPicture
	LeavePictureInPicture
)

// AllEventKinds lists every kind an Element may emit.
var AllEventKinds = []EventKind{
	TimeUpdate,
	DurationChange,
	Playing,
	Paused,
	Ended,
	Waiting,
	CanPlay,
	VolumeChange,
	RateChange,
	Error,
	Progress,
	EnterPictureInPicture,
	LeavePictureInPicture,
}

func (k EventKind) String() string {
	switch k {
	case TimeUpdate:
		return "timeupdate"
	case DurationChange:
		return "durationchange"
	case Playing:
		return "play"
	case Paused:
		return "pause"
	case Ended:
		return "ended"
	case Waiting:
		return "waiting"
	case CanPlay:
		return "canplay"
	case VolumeChange:
		return "volumechange"
	case RateChange:
		return "ratechange"
	case Error:
		return "error"
	case Progress:
		return "progress"
	case EnterPictureInPicture:
		return "enterpictureinpicture"
	case LeavePictureInPicture:
		return "leavepictureinpicture"
	default:
		return "unknown"
	}
}

// Event is one notification from an Element. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind EventKind

	// TimeUpdate, DurationChange
	Seconds float64

	// VolumeChange
	Volume float64
	Muted  bool

	// RateChange
	Rate float64

	// Progress, 0..100
	BufferedPercent float64

	// Error
	Err error
}
