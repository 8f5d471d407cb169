package domain

import "context"

// GeneratedQuestion is a question candidate proposed by a generator, before validation.
type GeneratedQuestion struct {
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Difficulty    int      `json:"difficulty"`
	Tags          []string `json:"tags"`
	Explanation   string   `json:"explanation"`
}

// ToQuestion converts the candidate into a bank question for the given domain.
func (g *GeneratedQuestion) ToQuestion(domainName string) *Question {
	return NewQuestion(g.Text, g.Options, g.CorrectOption, g.Difficulty, domainName, g.Tags, g.Explanation)
}

// QuestionGenerator proposes new multiple-choice questions, e.g. backed by an LLM.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, domainName string, difficulty int, tags []string, count int) ([]*GeneratedQuestion, error)
}

// BatchService fills the question bank.
type BatchService interface {
	// GenerateAndSave asks the generator for perDifficulty questions at every difficulty and saves the new ones.
	GenerateAndSave(ctx context.Context, domainName string, perDifficulty int) (int, error)

	// ImportQuestions saves the valid questions whose text is not in the bank yet.
	ImportQuestions(ctx context.Context, domainName string, questions []*Question) (int, error)
}
