package main

import "time"

type KnowledgeRequest struct {
	Query         string `json:"query"`
	GenerateImage bool   `json:"generate_image"`
}

type KnowledgeAnswer struct {
	Explanation string `json:"explanation"`
	ImageBase64 string `json:"image_base64"`
}

type View struct {
	Phase    string           `json:"phase"`
	Error    string           `json:"error"`
	Response *KnowledgeAnswer `json:"response"`
}

type BenchResult struct {
	Query    string
	Phase    string
	Duration time.Duration
	Err      error
	Size     int64
}

type Agg struct {
	Count      int
	Total      time.Duration
	TotalBytes int64
}
