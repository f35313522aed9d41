package tui

// Theme captures optional prefixes applied to printed messages. Keep minimal to
// avoid coupling runner logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithMultilineText prompts text questions with an editor-style text area
// instead of a single line input.
func WithMultilineText(enabled bool) Option {
	return func(r *Runner) {
		r.multiline = enabled
	}
}
