// Package license defines the license data model shared by every other
// licensetower package.
//
// A dependency is identified by its [Identity] (groupId and artifactId).
// The version is deliberately not part of the identity: license data
// resolved for one version of a library is reused for any other version
// encountered later, which is what makes the summary document usable as a
// cache between runs.
//
// A [Project] pairs an identity with the version currently resolved for it
// and the ordered list of [License] records declared by its descriptor.
//
// # File Names
//
// [FileName] derives the local file name under which a license text is
// stored:
//
//	FileName(License{Name: "Apache 2.0", URL: "https://www.apache.org/licenses/LICENSE-2.0"})
//	// "Apache 2.0 - LICENSE-2.0.txt"
//
//	FileName(License{URL: "https://example.com/LICENSE.txt"})
//	// "LICENSE.txt"
package license
