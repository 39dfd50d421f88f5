// Package pkg provides the libraries behind licensetower.
//
// # Overview
//
// Licensetower keeps a license summary for the dependencies of a Maven
// project and downloads every license text the summary references. A run
// reuses everything the previous run learned and only resolves dependencies
// it has not seen before.
//
// # Architecture
//
// The data flow of one run:
//
//	pom.xml / mvn dependency:list
//	         ↓
//	    [deps] package (enumerate direct and transitive dependencies)
//	         ↓
//	    [reconcile] package (reuse summary entries, fetch the rest)
//	         ↓                          ↓
//	    [integrations/maven]       [download]
//	    (effective POM licenses)   (license texts)
//	         ↓
//	    [summary] package (licenses.xml / licenses.json)
//
// # Main Packages
//
//   - [license]: identities, projects, licenses and license file naming
//   - [summary]: reading and writing license summaries
//   - [deps]: dependency enumeration from a POM or a dependency list
//   - [integrations]: shared cached HTTP client for registries
//   - [integrations/maven]: POM fetching, inheritance and interpolation
//   - [download]: license text transfer (http, https, file)
//   - [reconcile]: the reconciliation run
//
// # Supporting Packages
//
//   - [cache]: file, Redis and null caches for fetched POMs
//   - [errors]: coded errors shared by all packages
//   - [observability]: hooks for run, cache and HTTP events
//   - [buildinfo]: version information injected at build time
//
// # Quick Start
//
//	client := maven.NewClient(cache.NewNullCache(), 0)
//	rec := reconcile.New(
//	    deps.NewPOMSource("pom.xml", client, deps.Options{}),
//	    maven.NewLicenseFetcher(client, false),
//	    download.NewHTTP(download.DefaultTimeout),
//	    log.Default(),
//	    reconcile.Options{
//	        SummaryFile:       "src/licenses.xml",
//	        OutputDirectory:   "target/licenses",
//	        SummaryOutputFile: "target/licenses.xml",
//	        IncludeTransitive: true,
//	    },
//	)
//	res, err := rec.Run(ctx)
package pkg
