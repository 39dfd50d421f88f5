// Package maven reads project descriptors (POM files) from Maven repositories.
//
// # Overview
//
// A dependency's licenses are declared in its POM, or inherited from the
// nearest parent POM that declares any. [Client.Describe] fetches the POM
// and its parent chain and merges them into an effective [Descriptor]:
//
//   - groupId and version are inherited from the parent when absent
//   - <licenses> come from the nearest ancestor that declares them
//   - <properties> and <dependencyManagement> are merged, child wins
//   - import-scoped BOMs extend dependencyManagement
//   - ${...} references are interpolated in coordinates and licenses
//
// [Client.DescribeFile] does the same for a project on disk, reading parents
// through their relativePath before falling back to the repositories.
//
// # Usage
//
//	client := maven.NewClient(c, 24*time.Hour, maven.DefaultRepository)
//	desc, err := client.Describe(ctx, "org.slf4j", "slf4j-api", "2.0.9", false)
//	if err != nil {
//	    return err
//	}
//	for _, l := range desc.Licenses {
//	    fmt.Println(l.Name, l.URL)
//	}
//
// # Repositories
//
// Repositories are searched in the order given; the first repository that
// has the POM wins. A POM missing from every repository yields an error
// wrapping [integrations.ErrNotFound].
//
// # Caching
//
// Raw POM documents are cached under the "maven:pom:" namespace with the
// TTL given to [NewClient]. Released artifacts never change, so long TTLs
// are safe. Pass refresh=true to bypass the cache.
//
// # Licenses
//
// [LicenseFetcher] adapts the client to the reconciler: it turns a
// descriptor into a [license.Project] and reports every failure as a
// DESCRIPTOR_FAILED error.
//
// [integrations.ErrNotFound]: github.com/matzehuels/licensetower/pkg/integrations.ErrNotFound
// [license.Project]: github.com/matzehuels/licensetower/pkg/license.Project
package maven
