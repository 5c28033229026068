package entity

const (
	ResearchStatusRunning   = "running"
	ResearchStatusCompleted = "completed"
	ResearchStatusFailed    = "failed"
)

type ResearchRun struct {
	Id        string
	Question  string
	Status    string
	CreatedAt int64

	Sources []*ResearchSource
}

type ResearchSource struct {
	RunId    string
	RefId    string
	Title    *string
	URL      *string
	Pinned   bool
	Excluded bool
}
