package models

// SessionView is the JSON rendering of a controller snapshot.
type SessionView struct {
	ID           string           `json:"id,omitempty" example:"9b2f6f0e-4a0e-4d5c-9f2c-1f6c2f6f0e4a"`
	Query        string           `json:"query" example:"What is Kolam?"`
	Phase        string           `json:"phase" example:"succeeded"`
	Loading      bool             `json:"loading"`
	Error        string           `json:"error,omitempty"`
	Response     *KnowledgeAnswer `json:"response,omitempty"`
	ImageDisplay string           `json:"image_display,omitempty" example:"none"`
	APIStatus    APIStatus        `json:"api_status"`
	Seq          uint64           `json:"seq"`
}

type APIStatus struct {
	Checked   bool   `json:"checked"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type SetQueryRequest struct {
	Query string `json:"query" example:"What are the different types of Kolam?"`
}

type ImageErrorRequest struct {
	Seq uint64 `json:"seq" example:"1"`
}
