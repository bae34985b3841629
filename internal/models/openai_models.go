package models

type OpenAIRatingRequest struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type OpenAIRatingResponse struct {
	Ratings []OpenAIRating `json:"ratings"`
}

type OpenAIRating struct {
	Index      int     `json:"index"`
	Stars      int     `json:"stars"`
	Confidence float64 `json:"confidence"`
}
