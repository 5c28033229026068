package dto

type StartResearchRequest struct {
	Question string           `json:"question" validate:"required"`
	Options  *RetrieveRequest `json:"options"`
}

type StartResearchResponse struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type ResearchSourceResponse struct {
	RefId    string  `json:"ref_id"`
	Title    *string `json:"title"`
	URL      *string `json:"url"`
	Pinned   bool    `json:"pinned"`
	Excluded bool    `json:"excluded"`
}

type ResearchRunResponse struct {
	Id        string                   `json:"id"`
	Question  string                   `json:"question"`
	Status    string                   `json:"status"`
	CreatedAt int64                    `json:"created_at"`
	Sources   []ResearchSourceResponse `json:"sources"`
}

type UpdateSourceFlagsRequest struct {
	RunId    string
	RefId    string
	Pinned   *bool `json:"pinned"`
	Excluded *bool `json:"excluded"`
}
