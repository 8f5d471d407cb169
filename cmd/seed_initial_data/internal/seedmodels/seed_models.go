package seedmodels

import "adaptive-iq/internal/domain"

// SeedOption is one answer choice in the JSON seed file.
type SeedOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SeedQuestion defines the structure for a question item in the JSON seed file.
type SeedQuestion struct {
	Text          string       `json:"text"`
	Options       []SeedOption `json:"options"`
	CorrectOption string       `json:"correct_option"`
	Difficulty    int          `json:"difficulty"`
	Tags          []string     `json:"tags"`
	Explanation   string       `json:"explanation"`
}

// SeedBank groups the questions of one domain.
type SeedBank struct {
	Domain    string         `json:"domain"`
	Questions []SeedQuestion `json:"questions"`
}

// ToDomain converts the seed entry into a bank question.
func (q SeedQuestion) ToDomain(domainName string) *domain.Question {
	options := make([]domain.Option, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, domain.Option{ID: o.ID, Text: o.Text})
	}
	return domain.NewQuestion(q.Text, options, q.CorrectOption, q.Difficulty, domainName, q.Tags, q.Explanation)
}
