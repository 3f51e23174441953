package updater

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/mod/semver"

	"github.com/rennerdo30/lumen-desktop/internal/version"
)

// ParseVersion parses a semantic version such as "1.2.3", "v1.2.3" or "1.3.0-rc.1".
// The core must be exactly MAJOR.MINOR.PATCH without leading zeros; shorthand
// forms like "1.3" and extra segments like "1.2.3.1" are rejected.
func ParseVersion(s string) (*goversion.Version, error) {
	if !isStrictSemver(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	v, err := goversion.NewSemver(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	return v, nil
}

// isStrictSemver accepts s with or without a leading "v". semver.IsValid
// allows "v1" and "v1.2" as shorthand, so the core is also counted.
func isStrictSemver(s string) bool {
	core := strings.TrimPrefix(s, "v")
	if !semver.IsValid("v" + core) {
		return false
	}
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	return strings.Count(core, ".") == 2
}

// CurrentVersion returns the running build's version. Development builds and
// unparseable values count as 0.0.0 so that any real release is newer.
func CurrentVersion() *goversion.Version {
	v, err := ParseVersion(version.Version)
	if err != nil {
		v, _ = goversion.NewVersion("0.0.0")
	}
	return v
}

// IsNewer reports whether latest is strictly greater than current.
func IsNewer(latest, current *goversion.Version) bool {
	return latest.GreaterThan(current)
}
