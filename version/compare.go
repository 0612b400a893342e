package version

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ErrMalformed is returned for tags that are not major[.minor[.patch]][-pre].
var ErrMalformed = errors.New("malformed version")

// Release is a parsed release tag.
type Release struct {
	Major, Minor, Patch int

	// Pre is the pre-release suffix, e.g. "rc.1". Empty for stable releases.
	Pre string
}

// Parse reads tags such as "v0.4.0", "0.4" and "1.2.0-rc.1". Missing minor
// and patch parts are zero and build metadata after "+" is dropped.
func Parse(tag string) (Release, error) {
	s := strings.TrimPrefix(strings.TrimSpace(tag), "v")
	s, _, _ = strings.Cut(s, "+")
	core, pre, _ := strings.Cut(s, "-")

	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return Release{}, fmt.Errorf("%w: %q", ErrMalformed, tag)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Release{}, fmt.Errorf("%w: %q", ErrMalformed, tag)
		}
		nums[i] = n
	}

	return Release{Major: nums[0], Minor: nums[1], Patch: nums[2], Pre: pre}, nil
}

func (r Release) String() string {
	s := fmt.Sprintf("%d.%d.%d", r.Major, r.Minor, r.Patch)
	return lo.Ternary(r.Pre == "", s, s+"-"+r.Pre)
}

// Stable reports whether r has no pre-release suffix.
func (r Release) Stable() bool {
	return r.Pre == ""
}

// Compare returns -1, 0 or 1. A stable release sorts after its own
// pre-releases, which compare lexically among themselves.
func (r Release) Compare(other Release) int {
	if c := cmp.Compare(r.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Patch, other.Patch); c != 0 {
		return c
	}

	switch {
	case r.Pre == other.Pre:
		return 0
	case r.Stable():
		return 1
	case other.Stable():
		return -1
	default:
		return strings.Compare(r.Pre, other.Pre)
	}
}

// Compare parses and orders two tags.
func Compare(a, b string) (int, error) {
	ra, err := Parse(a)
	if err != nil {
		return 0, err
	}

	rb, err := Parse(b)
	if err != nil {
		return 0, err
	}

	return ra.Compare(rb), nil
}

// Upgrade reports whether latest should be offered to a user on current.
// Pre-releases are only offered to users already on a pre-release.
func Upgrade(latest, current string) bool {
	rl, err := Parse(latest)
	if err != nil {
		return false
	}

	rc, err := Parse(current)
	if err != nil {
		return false
	}

	if !rl.Stable() && rc.Stable() {
		return false
	}
	return rl.Compare(rc) > 0
}
