package model

type AnalyzeResponse struct {
	ID       string         `json:"id"`
	Findings []Finding      `json:"findings"`
	Report   AnalysisReport `json:"report"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
