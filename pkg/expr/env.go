package expr

import (
	"regexp"

	dberror "relcore/pkg/error"
)

// Env is the per-query evaluation context. It carries query options and
// caches compiled patterns for the lifetime of one query. An Env must not be
// shared between queries running concurrently.
type Env struct {
	// CaseInsensitiveLike makes LIKE behave like ILIKE.
	CaseInsensitiveLike bool

	regexes map[string]*regexp.Regexp
}

// NewEnv creates an evaluation context.
func NewEnv(caseInsensitiveLike bool) *Env {
	return &Env{
		CaseInsensitiveLike: caseInsensitiveLike,
		regexes:             make(map[string]*regexp.Regexp),
	}
}

// regex returns the compiled pattern, compiling it on first use. A nil Env
// compiles without caching.
func (e *Env) regex(pattern string) (*regexp.Regexp, error) {
	if e == nil {
		return compileRegex(pattern)
	}
	if re, ok := e.regexes[pattern]; ok {
		return re, nil
	}
	re, err := compileRegex(pattern)
	if err != nil {
		return nil, err
	}
	if e.regexes == nil {
		e.regexes = make(map[string]*regexp.Regexp)
	}
	e.regexes[pattern] = re
	return re, nil
}

func (e *Env) likeFolds() bool {
	return e != nil && e.CaseInsensitiveLike
}

func compileRegex(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return nil, dberror.NewInvalidPattern(pattern, err)
	}
	return re, nil
}
