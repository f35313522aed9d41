package wizard

import "github.com/goliatone/go-evalform/pkg/form"

// ValidateSection reports whether every required question of section has a
// non-empty answer.
func ValidateSection(section form.Section, answers form.AnswerSet) bool {
	for _, q := range section.Questions {
		if q.Required && !answers.Answered(q.ID) {
			return false
		}
	}
	return true
}

// MissingAnswers lists the required questions of section that are still
// unanswered, in section order.
func MissingAnswers(section form.Section, answers form.AnswerSet) []string {
	var missing []string
	for _, q := range section.Questions {
		if q.Required && !answers.Answered(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}
