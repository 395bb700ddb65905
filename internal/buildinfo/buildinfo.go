// Package buildinfo validates the interp binary's own version string when
// -version or -version-json is requested, grounded on the teacher's
// packagemanager resolver use of
// github.com/Masterminds/semver/v3 to parse and compare dependency
// versions — here repurposed to parse and range-check the binary's own
// version instead of a package dependency.
package buildinfo

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"
)

// Version is the interp binary's own semantic version. Overridable at link
// time with -ldflags "-X github.com/mu-lang/mu/internal/buildinfo.Version=...".
var Version = "0.1.0"

// CommitSHA and BuildDate are populated the same way; they default to
// "unknown" in a development build.
var (
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// Info bundles the parsed version alongside the raw build metadata, for
// -version/-version-json rendering.
type Info struct {
	Version   *semver.Version
	CommitSHA string
	BuildDate string
}

// Parse validates Version against semver and returns the bundled Info. A
// malformed Version is a build-time mistake (a bad -ldflags value), not a
// user error, so the CLI treats a non-nil error here as fatal.
func Parse() (*Info, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("buildinfo: invalid version %q: %w", Version, err)
	}
	return &Info{Version: v, CommitSHA: CommitSHA, BuildDate: BuildDate}, nil
}

// String renders "interp <version> (commit <sha>, built <date>)".
func (i *Info) String() string {
	return fmt.Sprintf("interp %s (commit %s, built %s)", i.Version.Original(), i.CommitSHA, i.BuildDate)
}

// SatisfiesMinimum reports whether Info's version meets a minimum-version
// constraint (e.g. a config file declaring "requires interp >=0.2.0"),
// mirroring the resolver's constraint-satisfaction check but against a
// single lower bound rather than a dependency graph.
func SatisfiesMinimum(i *Info, min string) (bool, error) {
	c, err := semver.NewConstraint(">=" + min)
	if err != nil {
		return false, fmt.Errorf("buildinfo: invalid minimum version %q: %w", min, err)
	}
	return c.Check(i.Version), nil
}
