// Package logger provides the structured logging interface used across talentpipe.
//
// It wraps zerolog with a small Logger interface supporting leveled output,
// fields, and a process-wide instance:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("run_id", runID)
//	log.InfoWithFields("Page scanned", map[string]interface{}{
//	    "page":         1,
//	    "new_profiles": 7,
//	})
//
// Console output is colourised and goes to stderr. When the terminal overlay
// owns the screen, NewWithWriter routes log lines elsewhere. Tests use
// NewNopLogger or NewTestLogger to capture messages.
package logger
