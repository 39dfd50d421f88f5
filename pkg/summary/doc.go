// Package summary reads and writes license summary documents.
//
// A summary document lists dependencies with their version and declared
// licenses. The same schema serves two purposes: it is the output of a
// run, and it is the cache that the next run reads back so unchanged
// dependencies are not resolved again. Operators may also hand-write a
// document in the same schema to seed license data for dependencies whose
// descriptors are incomplete.
//
// # Formats
//
// XML is the default and matches the licenses.xml layout used by Maven
// license tooling:
//
//	<licenseSummary>
//	  <dependencies>
//	    <dependency>
//	      <groupId>junit</groupId>
//	      <artifactId>junit</artifactId>
//	      <version>4.13.2</version>
//	      <licenses>
//	        <license>
//	          <name>Eclipse Public License 1.0</name>
//	          <url>http://www.eclipse.org/legal/epl-v10.html</url>
//	        </license>
//	      </licenses>
//	    </dependency>
//	  </dependencies>
//	</licenseSummary>
//
// Files ending in ".json" use the same fields encoded as JSON.
//
// # Errors
//
// Parse failures carry [errors.ErrCodeMalformedSummary]; write failures
// carry [errors.ErrCodeWriteSummary]. Both are fatal to a run.
//
// [errors.ErrCodeMalformedSummary]: github.com/matzehuels/licensetower/pkg/errors.ErrCodeMalformedSummary
// [errors.ErrCodeWriteSummary]: github.com/matzehuels/licensetower/pkg/errors.ErrCodeWriteSummary
package summary
