package models

// TriggerStat is the share of a user's pain entries that mention a trigger.
type TriggerStat struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
}

// Pattern is a heuristic insight derived from entry timing or triggers.
type Pattern struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
}

type Recommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

type Resource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	URL         string `json:"url"`
}
