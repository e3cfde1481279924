package sdk

import "github.com/dohr-michael/ozzie-core/internal/appctx"

// SetContext replaces the entire ambient AppContext.
func (s *SDK) SetContext(ctx appctx.AppContext) {
	s.AppContext.Set(ctx)
}

// UpdateContext applies fn to a clone of the current AppContext and stores
// the result — the only sanctioned path for in-place-looking mutation
// (spec §5, "copy-on-write for hook returns").
func (s *SDK) UpdateContext(fn func(appctx.AppContext) appctx.AppContext) {
	s.AppContext.Update(fn)
}

// GetContext returns a copy-on-write clone of the current AppContext.
func (s *SDK) GetContext() appctx.AppContext {
	return s.AppContext.Get()
}
