// Package wizard drives a respondent through a form.Definition one section at
// a time. A Session owns the navigation state machine (Section(i) → Submitted),
// the collected answers, and a transient validation notice that clears itself
// after a timeout. Progress is never stored: it is recomputed from the
// definition and the answers whenever it is read.
//
// Forward moves (Next, Submit) validate the section being left; Previous never
// validates. A failed validation blocks the move, returns a *ValidationError
// and raises the notice; a second failure before the notice expires restarts
// its timer. Sessions are meant to be driven from a single UI goroutine; the
// notice timer fires on its own goroutine, so every method is guarded by an
// internal mutex.
package wizard
