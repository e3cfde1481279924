package sdk

// StartListening marks the SDK as accepting voice input. The external
// speech-capture layer (out of scope for this module) is expected to
// check IsListening before handing a finalized utterance to Submit; the
// core itself never gates Submit on this flag, since submit() is also the
// entry path for callers that bypass voice entirely (spec §4.10).
func (s *SDK) StartListening() {
	s.listening.Store(true)
}

// StopListening marks the SDK as not accepting voice input.
func (s *SDK) StopListening() {
	s.listening.Store(false)
}

// IsListening reports the current listening flag.
func (s *SDK) IsListening() bool {
	return s.listening.Load()
}
