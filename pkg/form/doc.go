// Package form defines the evaluation instrument consumed by the wizard: an
// ordered list of sections, each holding ordered questions of type rating or
// text. Definitions are plain values; they can be decoded from JSON or YAML
// documents (see LoadFS and Parse), persisted by a repository, or built in
// code. Validate enforces the structural invariants the wizard relies on: at
// least one section, unique section and question identifiers across the whole
// form, and a known question type for every question.
//
// AnswerSet holds the respondent's answers keyed by question identifier. A key
// is present only once its question has a non-empty answer.
package form
