// Package integrations provides HTTP clients for package repositories.
//
// # Overview
//
// The [Client] type holds the HTTP plumbing shared by repository clients:
//
//   - default headers and a User-Agent on every request
//   - status mapping (404/410 to [ErrNotFound], 5xx and 429 to a retryable
//     [ErrNetwork])
//   - response caching through [cache.Cache] with a namespace and TTL
//   - retry with exponential backoff for idempotent reads
//
// Repository specific clients live in subpackages:
//
//   - [maven]: Maven repositories (POM descriptors and their licenses)
//
// # Client Pattern
//
//	c, _ := cache.NewFileCache(dir)
//	client := maven.NewClient(c, 24*time.Hour)
//	desc, err := client.Describe(ctx, "junit", "junit", "4.13.2", false)
//
// [maven]: github.com/matzehuels/licensetower/pkg/integrations/maven
// [cache.Cache]: github.com/matzehuels/licensetower/pkg/cache.Cache
package integrations
