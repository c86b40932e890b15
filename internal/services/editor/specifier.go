package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxCasesPerEdit bounds how many cases a single specifier may resolve to.
const MaxCasesPerEdit = 25

var ErrInvalidSpecifier = errors.New("invalid case specifier")
var ErrNoCasesYet = errors.New("community has no cases yet")

type SpecifierMode int

const (
	// SpecifierModeStrict normalizes a reversed range like "10-5" to
	// [5,10].
	SpecifierModeStrict SpecifierMode = iota
	// SpecifierModeAutocomplete preserves the typed order so half-typed
	// input is not silently reordered under the operator.
	SpecifierModeAutocomplete
)

// CaseSpecifier selects one case, an inclusive id range, or the latest N
// cases. LatestCount is zero unless the "latest~N" form was used.
type CaseSpecifier struct {
	From        int64
	To          int64
	LatestCount int64
}

const latestPrefix = "latest"

// ParseCaseSpecifier accepts "57", "5-10" or "latest~3" (bare "latest"
// means latest~1).
func ParseCaseSpecifier(raw string, mode SpecifierMode) (CaseSpecifier, error) {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	if trimmed == "" {
		return CaseSpecifier{}, fmt.Errorf("%w: empty input", ErrInvalidSpecifier)
	}

	if strings.HasPrefix(trimmed, latestPrefix) {
		rest := strings.TrimPrefix(trimmed, latestPrefix)
		if rest == "" {
			return CaseSpecifier{LatestCount: 1}, nil
		}
		if !strings.HasPrefix(rest, "~") {
			return CaseSpecifier{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, raw)
		}
		count, err := strconv.ParseInt(strings.TrimPrefix(rest, "~"), 10, 64)
		if err != nil || count <= 0 {
			return CaseSpecifier{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, raw)
		}
		return CaseSpecifier{LatestCount: count}, nil
	}

	if from, to, ok := strings.Cut(trimmed, "-"); ok {
		fromID, err := strconv.ParseInt(from, 10, 64)
		if err != nil || fromID <= 0 {
			return CaseSpecifier{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, raw)
		}
		toID, err := strconv.ParseInt(to, 10, 64)
		if err != nil || toID <= 0 {
			return CaseSpecifier{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, raw)
		}
		if mode == SpecifierModeStrict && fromID > toID {
			fromID, toID = toID, fromID
		}
		return CaseSpecifier{From: fromID, To: toID}, nil
	}

	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return CaseSpecifier{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, raw)
	}
	return CaseSpecifier{From: id, To: id}, nil
}

// Resolve turns the specifier into a concrete inclusive id range using the
// community's next case id at call time.
func (s CaseSpecifier) Resolve(nextCaseID int64) (int64, int64, error) {
	if s.LatestCount > 0 {
		latest := nextCaseID - 1
		if latest < 1 {
			return 0, 0, ErrNoCasesYet
		}
		from := latest - s.LatestCount + 1
		if from < 1 {
			from = 1
		}
		return from, latest, nil
	}
	return s.From, s.To, nil
}

// Count returns the number of cases an already-resolved range covers.
func Count(fromID, toID int64) int64 {
	if fromID > toID {
		fromID, toID = toID, fromID
	}
	return toID - fromID + 1
}
