// Package deps enumerates the dependencies of a Maven project.
//
// # Overview
//
// A [Source] lists the artifacts a build depends on, in a stable
// enumeration order. Two sources are provided:
//
//   - [POMSource] reads a project pom.xml and, when asked for transitive
//     dependencies, crawls dependency POMs from Maven repositories
//   - [ListSource] reads the output of "mvn dependency:list"
//
// # Transitive Resolution
//
// [POMSource] follows Maven's mediation rules closely enough for license
// reporting:
//
//   - direct dependencies of every scope are included
//   - test, provided and optional dependencies of dependencies are not
//     followed
//   - exclusions declared on a path apply to everything below it
//   - the project's dependencyManagement pins transitive versions
//   - the nearest declaration wins; at equal depth, the first one
//
// Descriptor fetches run on a bounded worker pool, one depth level at a
// time, so the result does not depend on network timing.
//
// # Failures
//
// Failing to read the project itself is an error. A dependency whose POM
// cannot be fetched during the crawl is still listed; its own
// dependencies are skipped and the failure is passed to [Options.Logger].
//
// # Usage
//
//	client := maven.NewClient(c, 24*time.Hour)
//	src := deps.NewPOMSource("pom.xml", client, deps.Options{Logger: log.Debugf})
//	artifacts, err := src.Dependencies(ctx, true)
package deps
