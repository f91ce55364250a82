package probe

import (
	"fmt"
	"regexp"

	masterminds "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// RequirementStatus is the outcome of checking a version requirement.
type RequirementStatus int

const (
	Unchecked RequirementStatus = iota
	Satisfied
	Unsatisfied
	Invalid
)

func (s RequirementStatus) String() string {
	switch s {
	case Satisfied:
		return "satisfied"
	case Unsatisfied:
		return "unsatisfied"
	case Invalid:
		return "invalid"
	}
	return "unchecked"
}

// Requirement is a version constraint attached to a probe result. It only
// annotates the report.
type Requirement struct {
	Constraint string
	Status     RequirementStatus
	Detail     string
}

// versionTokenRe picks the first dotted version number out of a version line
// such as "cmake version 3.28.1" or "Ubuntu clang version 18.1.3 (1ubuntu1)".
var versionTokenRe = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// CheckToolVersion evaluates a semver constraint (">= 3.20", "^1.11")
// against the version reported in versionLine.
func CheckToolVersion(versionLine, constraint string) *Requirement {
	req := &Requirement{Constraint: constraint}
	c, err := masterminds.NewConstraint(constraint)
	if err != nil {
		req.Status, req.Detail = Invalid, err.Error()
		return req
	}
	token := versionTokenRe.FindString(versionLine)
	if token == "" {
		req.Status, req.Detail = Invalid, fmt.Sprintf("no version number in %q", versionLine)
		return req
	}
	v, err := masterminds.NewVersion(token)
	if err != nil {
		req.Status, req.Detail = Invalid, err.Error()
		return req
	}
	if ok, errs := c.Validate(v); !ok {
		req.Status = Unsatisfied
		if len(errs) > 0 {
			req.Detail = errs[0].Error()
		}
		return req
	}
	req.Status, req.Detail = Satisfied, v.String()
	return req
}

// CheckInstanceVersion requires have to be at least min. Both are plain
// dotted versions such as "1.3.250".
func CheckInstanceVersion(have, min string) *Requirement {
	req := &Requirement{Constraint: ">= " + min}
	hv, mv := "v"+have, "v"+min
	switch {
	case !semver.IsValid(mv):
		req.Status, req.Detail = Invalid, fmt.Sprintf("invalid minimum version %q", min)
	case !semver.IsValid(hv):
		req.Status, req.Detail = Invalid, fmt.Sprintf("invalid instance version %q", have)
	case semver.Compare(hv, mv) < 0:
		req.Status, req.Detail = Unsatisfied, fmt.Sprintf("%s is older than %s", have, min)
	default:
		req.Status = Satisfied
	}
	return req
}
