package version

import (
	"fmt"
	"strings"
	"sync"
)

// validCharacters is a list of characters valid in the appBuild string
const validCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

const (
	appMajor uint = 0
	appMinor uint = 2
	appPatch uint = 0
)

// appBuild is defined as a variable so it can be overridden during the build
// process with '-ldflags "-X github.com/talkcoin/talkminer/version.appBuild=foo"' if needed.
// It MUST only contain characters from validCharacters.
var appBuild string

var (
	version     string // string used for memoization of version
	versionOnce sync.Once
)

// Version returns the application version as a properly formed string
func Version() string {
	versionOnce.Do(func() {
		version = buildVersion(appBuild)
	})
	return version
}

func buildVersion(build string) string {
	// Start with the major, minor, and patch versions.
	result := fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)

	// Append build metadata if there is any. The build metadata
	// string is not appended if it contains invalid characters.
	build = checkAppBuild(build)
	if build != "" {
		result = fmt.Sprintf("%s-%s", result, build)
	}
	return result
}

// checkAppBuild returns the passed string unless it contains any characters not in validCharacters
// If any invalid characters are encountered - an empty string is returned
func checkAppBuild(str string) string {
	for _, r := range str {
		if !strings.ContainsRune(validCharacters, r) {
			return ""
		}
	}
	return str
}
