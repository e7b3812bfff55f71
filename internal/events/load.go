package events

// EntityRun identifies events about one pipeline run; the entity id is the run id.
const EntityRun = "run"

// Event type constants
const (
	EventLoadStarted    = "load.started"
	EventLoadProgressed = "load.progressed"
	EventLoadCompleted  = "load.completed"
	EventLoadFailed     = "load.failed"
)

// LoadStarted is emitted when a run begins.
type LoadStarted struct {
	BaseEvent
	Bypass  bool   `json:"bypass"`
	Trigger string `json:"trigger"` // "startup", "schedule", "api"
}

// LoadProgressed is emitted after every batch.
type LoadProgressed struct {
	BaseEvent
	Done   int `json:"done"`
	Total  int `json:"total"`
	Movies int `json:"movies"`
	Failed int `json:"failed"`
}

// LoadCompleted is emitted when a run produced its final list.
type LoadCompleted struct {
	BaseEvent
	Movies     int   `json:"movies"`
	Failed     int   `json:"failed"`
	Cached     bool  `json:"cached"`
	DurationMS int64 `json:"duration_ms"`
}

// LoadFailed is emitted when a run ended without a final list.
type LoadFailed struct {
	BaseEvent
	Reason   string `json:"reason"`
	Canceled bool   `json:"canceled"`
}

// NewLoadStarted creates a LoadStarted event for runID.
func NewLoadStarted(runID string, bypass bool, trigger string) *LoadStarted {
	return &LoadStarted{
		BaseEvent: NewBaseEvent(EventLoadStarted, EntityRun, runID),
		Bypass:    bypass,
		Trigger:   trigger,
	}
}

// NewLoadProgressed creates a LoadProgressed event for runID.
func NewLoadProgressed(runID string, done, total, movies, failed int) *LoadProgressed {
	return &LoadProgressed{
		BaseEvent: NewBaseEvent(EventLoadProgressed, EntityRun, runID),
		Done:      done,
		Total:     total,
		Movies:    movies,
		Failed:    failed,
	}
}

// NewLoadCompleted creates a LoadCompleted event for runID.
func NewLoadCompleted(runID string, movies, failed int, cached bool, durationMS int64) *LoadCompleted {
	return &LoadCompleted{
		BaseEvent:  NewBaseEvent(EventLoadCompleted, EntityRun, runID),
		Movies:     movies,
		Failed:     failed,
		Cached:     cached,
		DurationMS: durationMS,
	}
}

// NewLoadFailed creates a LoadFailed event for runID.
func NewLoadFailed(runID, reason string, canceled bool) *LoadFailed {
	return &LoadFailed{
		BaseEvent: NewBaseEvent(EventLoadFailed, EntityRun, runID),
		Reason:    reason,
		Canceled:  canceled,
	}
}
