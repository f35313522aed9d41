package wizard

import "time"

// DefaultNoticeTimeout is how long a validation notice stays visible.
const DefaultNoticeTimeout = 5 * time.Second

// Option configures a Session.
type Option func(*Session)

// WithID tags the session; the id travels with State and Submission.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithNoticeTimeout overrides DefaultNoticeTimeout. Non-positive values are
// ignored.
func WithNoticeTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.noticeTimeout = d
		}
	}
}

// WithScheduler swaps the timer implementation used for the notice.
func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// WithClock overrides time.Now for submission timestamps and notice expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithListener registers a callback invoked with a fresh View after every state
// change, including the notice clearing itself. The callback runs outside the
// session lock and may call back into the session.
func WithListener(fn func(View)) Option {
	return func(s *Session) {
		s.listener = fn
	}
}
