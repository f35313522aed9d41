package form

// QuestionType enumerates the supported answer kinds.
type QuestionType string

const (
	// QuestionTypeRating is answered with an integer between RatingMin and
	// RatingMax, stored as its decimal string.
	QuestionTypeRating QuestionType = "rating"
	// QuestionTypeText is answered with free text.
	QuestionTypeText QuestionType = "text"
)

const (
	RatingMin = 1
	RatingMax = 5
)

// Question is a single prompt inside a section.
type Question struct {
	ID       string       `json:"id" yaml:"id" bson:"id" validate:"required"`
	Text     string       `json:"text" yaml:"text" bson:"text" validate:"required"`
	Type     QuestionType `json:"type" yaml:"type" bson:"type" validate:"required,oneof=rating text"`
	Required bool         `json:"required" yaml:"required" bson:"required"`
}

// Section groups questions that share a theme. It is the unit of forward
// navigation validation.
type Section struct {
	ID          string     `json:"id" yaml:"id" bson:"id" validate:"required"`
	Title       string     `json:"title" yaml:"title" bson:"title" validate:"required"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions" bson:"questions" validate:"dive"`
}

// Metadata describes who and what is being evaluated.
type Metadata struct {
	Instructor string            `json:"instructor,omitempty" yaml:"instructor,omitempty" bson:"instructor,omitempty"`
	Course     string            `json:"course,omitempty" yaml:"course,omitempty" bson:"course,omitempty"`
	Department string            `json:"department,omitempty" yaml:"department,omitempty" bson:"department,omitempty"`
	Term       string            `json:"term,omitempty" yaml:"term,omitempty" bson:"term,omitempty"`
	Labels     map[string]string `json:"labels,omitempty" yaml:"labels,omitempty" bson:"labels,omitempty"`
}

// Definition is the full evaluation instrument.
type Definition struct {
	ID          string    `json:"id" yaml:"id" bson:"_id" validate:"required"`
	Title       string    `json:"title" yaml:"title" bson:"title" validate:"required"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Metadata    Metadata  `json:"metadata" yaml:"metadata" bson:"metadata"`
	Sections    []Section `json:"sections" yaml:"sections" bson:"sections" validate:"required,min=1,dive"`
}

// SectionCount reports the number of sections.
func (d Definition) SectionCount() int {
	return len(d.Sections)
}

// Section returns the section at index i.
func (d Definition) Section(i int) (Section, bool) {
	if i < 0 || i >= len(d.Sections) {
		return Section{}, false
	}
	return d.Sections[i], true
}

// SectionIndex returns the position of the section with the given id, or -1.
func (d Definition) SectionIndex(id string) int {
	for i, section := range d.Sections {
		if section.ID == id {
			return i
		}
	}
	return -1
}

// Question looks a question up by id across all sections.
func (d Definition) Question(id string) (Question, bool) {
	for _, section := range d.Sections {
		for _, q := range section.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// RequiredQuestions returns every required question in form order.
func (d Definition) RequiredQuestions() []Question {
	var out []Question
	for _, section := range d.Sections {
		out = append(out, section.RequiredQuestions()...)
	}
	return out
}

// RequiredQuestions returns the required questions of the section in order.
func (s Section) RequiredQuestions() []Question {
	var out []Question
	for _, q := range s.Questions {
		if q.Required {
			out = append(out, q)
		}
	}
	return out
}

// Clone copies m including its Labels map.
func (m Metadata) Clone() Metadata {
	out := m
	if m.Labels != nil {
		out.Labels = make(map[string]string, len(m.Labels))
		for k, v := range m.Labels {
			out.Labels[k] = v
		}
	}
	return out
}

// Clone returns a deep copy so callers can mutate the result freely.
func (d Definition) Clone() Definition {
	out := d
	out.Metadata = d.Metadata.Clone()
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		for i, section := range d.Sections {
			section.Questions = append([]Question(nil), section.Questions...)
			out.Sections[i] = section
		}
	}
	return out
}
