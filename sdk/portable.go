package sdk

import (
	"encoding/json"
	"fmt"

	"github.com/coreos/go-semver/semver"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
)

// PortableVersion is the version of the portable encoding written by this package.
// Encodings with the same major version are read; minor versions only add fields.
//
//   - 1.0.0 written as the number 1
//   - 1.1.0 token transfers with expected decimals, token create
var PortableVersion = *semver.New("1.1.0")

// portableVersion is the version of a portable form. It is written as a semantic
// version string; the number written by the first encoding reads as its major version.
type portableVersion struct {
	semver.Version
}

func currentPortableVersion() portableVersion {
	return portableVersion{Version: PortableVersion}
}

func (v portableVersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Version.String())
}

func (v *portableVersion) UnmarshalJSON(data []byte) error {
	var major int64
	if err := json.Unmarshal(data, &major); err == nil {
		v.Version = semver.Version{Major: major}
		return nil
	}

	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("version is neither a number nor a string: %s", data)
	}
	parsed, err := semver.NewVersion(s)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", s, err)
	}
	v.Version = *parsed
	return nil
}

// check fails for versions this package cannot read. A missing version is the zero
// version and reads as the first encoding.
func (v portableVersion) check() error {
	if v.Major < 0 || v.Major > PortableVersion.Major {
		return &clienterrors.UnsupportedVersionError{Version: v.Version.String()}
	}
	return nil
}
