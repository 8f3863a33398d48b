package sheet

import "log/slog"

// Option configures a Session at open time.
type Option func(*Session)

// WithDelimiter sets the field delimiter byte (default ','). A line
// feed is not a valid delimiter and is ignored.
func WithDelimiter(d byte) Option {
	return func(s *Session) {
		if d == '\n' {
			return
		}
		s.delim = d
	}
}

// WithLogger sets the logger used for open and warm diagnostics.
// If not set, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMaxDecoderMemory limits the memory used by the zstd decoder when
// opening ".zst"/".zstd" inputs. Set limit to 0 to use the decoder
// default.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(s *Session) {
		s.maxDecoderMemory = limit
	}
}
