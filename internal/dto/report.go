package dto

// Strengths are per-skill accuracies in percent
type Strengths struct {
	Verbal             int `json:"verbal"`
	Mathematical       int `json:"mathematical"`
	Logical            int `json:"logical"`
	PatternRecognition int `json:"pattern_recognition"`
}

// ResultsResponse is the results report of a session
// @Description Results report. Error is set when nothing has been answered yet.
type ResultsResponse struct {
	Error             string    `json:"error,omitempty"`
	IQScore           int       `json:"iq_score"`
	Percentile        float64   `json:"percentile"`
	IQCategory        string    `json:"iq_category"`
	Accuracy          int       `json:"accuracy"`
	TotalQuestions    int       `json:"total_questions"`
	CorrectAnswers    int       `json:"correct_answers"`
	PersonalityTraits []string  `json:"personality_traits"`
	Strengths         Strengths `json:"strengths"`
}

// IncorrectAnswerResponse is one entry of the incorrect-answer review
type IncorrectAnswerResponse struct {
	QuestionID         string           `json:"question_id"`
	QuestionText       string           `json:"question_text"`
	Options            []OptionResponse `json:"options"`
	SelectedOption     string           `json:"selected_option,omitempty"`
	SelectedOptionText string           `json:"selected_option_text"`
	CorrectOption      string           `json:"correct_option"`
	CorrectOptionText  string           `json:"correct_option_text"`
	Difficulty         int              `json:"difficulty"`
	Explanation        string           `json:"explanation"`
}

// IncorrectAnswersResponse wraps the review list
type IncorrectAnswersResponse struct {
	IncorrectAnswers []IncorrectAnswerResponse `json:"incorrect_answers"`
}
