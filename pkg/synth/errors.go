package synth

import "errors"

// ErrConfiguration indicates an invalid construction parameter. The
// wrapped message names the offending field and value.
var ErrConfiguration = errors.New("invalid configuration")

// ErrEvent indicates a malformed event list: a note outside the MIDI
// range or a sample index outside the current block. Bad events are
// reported, never silently dropped.
var ErrEvent = errors.New("invalid event")
