package deps

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/licensetower/pkg/integrations/maven"
)

// Describer builds effective Maven descriptors. *maven.Client implements it.
type Describer interface {
	Describe(ctx context.Context, group, artifact, version string, refresh bool) (*maven.Descriptor, error)
	DescribeFile(ctx context.Context, path string, refresh bool) (*maven.Descriptor, error)
}

// POMSource enumerates the dependencies declared by a pom.xml.
type POMSource struct {
	path   string
	client Describer
	opts   Options
}

// NewPOMSource creates a Source for the project at path.
func NewPOMSource(path string, client Describer, opts Options) *POMSource {
	return &POMSource{path: path, client: client, opts: opts.WithDefaults()}
}

// Dependencies implements [Source].
func (s *POMSource) Dependencies(ctx context.Context, transitive bool) ([]Artifact, error) {
	root, err := s.client.DescribeFile(ctx, s.path, s.opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", s.path, err)
	}
	c := &crawler{
		ctx:     ctx,
		opts:    s.opts,
		client:  s.client,
		managed: root.Managed,
		visited: make(map[string]bool),
	}
	return c.run(root.Dependencies, transitive)
}

type crawler struct {
	ctx     context.Context
	opts    Options
	client  Describer
	managed map[string]maven.Dependency

	jobs    chan job
	results chan result
	wg      sync.WaitGroup // workers
	feeding sync.WaitGroup // level feeders

	visited map[string]bool
	out     []Artifact
	full    bool
}

// node is an admitted artifact together with the exclusions in force on
// the path that reached it.
type node struct {
	Artifact
	exclusions []string
}

type job struct {
	index int
	node  node
}

type result struct {
	job
	desc *maven.Descriptor
	err  error
}

func (c *crawler) run(direct []maven.Dependency, transitive bool) ([]Artifact, error) {
	level := c.admit(direct, nil, 1)
	if !transitive || len(level) == 0 {
		return c.out, nil
	}

	c.jobs = make(chan job, c.opts.Workers*2)
	c.results = make(chan result, c.opts.Workers*2)
	for i := 0; i < c.opts.Workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
	defer func() {
		c.feeding.Wait()
		close(c.jobs)
		c.wg.Wait()
	}()

	for depth := 1; len(level) > 0 && depth < c.opts.MaxDepth && !c.full; depth++ {
		results, err := c.fetchLevel(level)
		if err != nil {
			return nil, err
		}
		var next []node
		for _, r := range results {
			if r.err != nil {
				c.opts.Logger("fetch failed: %s: %v", r.node.Artifact, r.err)
				continue
			}
			if r.desc == nil {
				continue // not followed
			}
			next = append(next, c.admit(r.desc.Dependencies, &r.node, depth+1)...)
		}
		level = next
	}
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}
	return c.out, nil
}

func (c *crawler) worker() {
	defer c.wg.Done()
	for j := range c.jobs {
		var r result
		if err := c.ctx.Err(); err != nil {
			r = result{job: j, err: err}
		} else {
			a := j.node.Artifact
			desc, err := c.client.Describe(c.ctx, a.Group, a.Artifact, a.Version, c.opts.Refresh)
			r = result{job: j, desc: desc, err: err}
		}
		select {
		case c.results <- r:
		case <-c.ctx.Done():
		}
	}
}

// fetchLevel describes every node of one depth level. Results are
// returned in level order; system scoped nodes are not fetched and keep
// an empty result.
func (c *crawler) fetchLevel(level []node) ([]result, error) {
	var fetch []job
	for i, n := range level {
		if n.Scope != "system" {
			fetch = append(fetch, job{index: i, node: n})
		}
	}

	c.feeding.Add(1)
	go func() {
		defer c.feeding.Done()
		for _, j := range fetch {
			select {
			case c.jobs <- j:
			case <-c.ctx.Done():
				return
			}
		}
	}()

	results := make([]result, len(level))
	for i := range level {
		results[i] = result{job: job{index: i, node: level[i]}}
	}
	for range fetch {
		select {
		case r := <-c.results:
			results[r.index] = r
		case <-c.ctx.Done():
			return nil, c.ctx.Err()
		}
	}
	return results, nil
}

// admit adds the eligible dependencies of parent (or of the project when
// parent is nil) to the output and returns them as the next level.
func (c *crawler) admit(deps []maven.Dependency, parent *node, depth int) []node {
	var next []node
	for _, d := range deps {
		if d.Scope == "import" {
			continue
		}
		if parent != nil {
			if d.Scope == "test" || d.Scope == "provided" || d.Scope == "system" || d.Optional {
				continue
			}
			if excluded(parent.exclusions, d.Key()) {
				continue
			}
			if m, ok := c.managed[d.Key()]; ok && m.Version != "" {
				d.Version = m.Version
			}
			d.Scope = mediateScope(parent.Scope, d.Scope)
		}
		if !d.Resolved() {
			c.opts.Logger("skipping unresolved dependency %s:%s:%s", d.GroupID, d.ArtifactID, d.Version)
			continue
		}
		if c.visited[d.Key()] {
			continue
		}
		if len(c.out) >= c.opts.MaxNodes {
			if !c.full {
				c.opts.Logger("dependency limit of %d reached", c.opts.MaxNodes)
				c.full = true
			}
			return next
		}
		c.visited[d.Key()] = true

		a := Artifact{
			Group:      d.GroupID,
			Artifact:   d.ArtifactID,
			Version:    d.Version,
			Type:       d.Type,
			Classifier: d.Classifier,
			Scope:      d.Scope,
			Depth:      depth,
		}
		c.out = append(c.out, a)

		var excl []string
		if parent != nil {
			excl = slices.Clone(parent.exclusions)
		}
		next = append(next, node{Artifact: a, exclusions: append(excl, d.Exclusions...)})
	}
	return next
}

func excluded(patterns []string, key string) bool {
	return maven.Dependency{Exclusions: patterns}.Excludes(key)
}

// mediateScope returns the scope a transitive dependency takes on when
// reached through a dependency of scope parent.
func mediateScope(parent, child string) string {
	if parent == "compile" {
		if child == "runtime" {
			return "runtime"
		}
		return "compile"
	}
	return parent
}
