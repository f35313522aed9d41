package wizard

import (
	"math"

	"github.com/goliatone/go-evalform/pkg/form"
)

// EmptyFormProgress is reported for forms without required questions: there is
// nothing left to answer, so the form counts as complete.
const EmptyFormProgress = 100

// Progress returns the percentage (0-100) of required questions answered
// across every section of def, independent of the current position.
func Progress(def form.Definition, answers form.AnswerSet) int {
	total, answered := 0, 0
	for _, section := range def.Sections {
		for _, q := range section.Questions {
			if !q.Required {
				continue
			}
			total++
			if answers.Answered(q.ID) {
				answered++
			}
		}
	}
	if total == 0 {
		return EmptyFormProgress
	}
	return int(math.Round(100 * float64(answered) / float64(total)))
}
