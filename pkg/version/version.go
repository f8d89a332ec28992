package version

import (
	"reflect"
	"strconv"
	"strings"
)

// BinaryGitHash is the Git hash of the custodytree binary file which is executing.
var BinaryGitHash = "<unknown>"

// Binary is custodytree's API version. init parses it from the text after
// the last "." of this package's import path, minus its first character;
// for this import path that text is not a number, so Binary stays 0.
var Binary = 0

// Semantic is the human-facing release version, set at link time with
// -ldflags "-X github.com/bplib-go/custodytree/pkg/version.Semantic=...".
var Semantic = "dev"

type versionProbe struct{}

func init() {
	parts := strings.Split(reflect.TypeOf(versionProbe{}).PkgPath(), ".")
	Binary, _ = strconv.Atoi(parts[len(parts)-1][1:])
}
